// Package api exposes the service over HTTP: run history, manual triggers
// and the pipeline status.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/sectionfeed/infra/logger"
)

// Serve runs an HTTP server for h on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	log := logger.New("api")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("api shutdown: %v", err)
		}
	}()
	log.Infof("serving api on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
