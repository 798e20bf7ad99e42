// Package e2e holds the container-backed end-to-end suite and its helpers.
package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient wraps the InfluxDB v2 client for the suite: bucket setup and
// counting the points the metrics sink wrote.
type InfluxClient struct {
	org    string
	client influxdb2.Client
	query  api.QueryAPI
}

func NewInfluxClient(url, org, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{org: org, client: c, query: c.QueryAPI(org)}
}

// EnsureBucket creates bucket in the client's organisation when missing.
func (c *InfluxClient) EnsureBucket(ctx context.Context, bucket string) error {
	org, err := c.client.OrganizationsAPI().FindOrganizationByName(ctx, c.org)
	if err != nil {
		return fmt.Errorf("find org: %w", err)
	}
	if b, err := c.client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil && b != nil {
		return nil
	}
	if _, err := c.client.BucketsAPI().CreateBucketWithName(ctx, org, bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// CountRuns returns how many pipeline_run points with the given outcome were
// written to bucket during the last hour.
func (c *InfluxClient) CountRuns(ctx context.Context, bucket, outcome string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == "pipeline_run" and r._field == "sections" and r.outcome == %q)`, bucket, outcome)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

func (c *InfluxClient) Close() { c.client.Close() }
