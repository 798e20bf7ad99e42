package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/core/pipeline"
)

// TransitionSource is implemented by *pipeline.Pipeline and by the
// transition bus itself.
type TransitionSource interface {
	Subscribe() <-chan pipeline.Transition
	Unsubscribe(<-chan pipeline.Transition)
}

// StartTransitionCollector subscribes to src and records every state change
// on sink when it implements TransitionRecorder. It stops when ctx is
// canceled or the subscription is closed. The returned channel is closed
// once the collector has exited.
func StartTransitionCollector(ctx context.Context, src TransitionSource, sink coremetrics.Sink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.TransitionRecorder)
	if src == nil || !ok {
		close(done)
		return done
	}
	sub := src.Subscribe()
	go func() {
		defer close(done)
		defer src.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case tr, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordTransition(coremetrics.TransitionEvent{
					RunID: tr.RunID,
					From:  tr.From.String(),
					To:    tr.To.String(),
					Time:  tr.Time,
				})
			}
		}
	}()
	return done
}
