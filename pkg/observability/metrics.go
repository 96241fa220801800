package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics emits operational metrics to CloudWatch. A nil *Metrics is a
// valid no-op so callers never need to guard for disabled metrics.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetrics creates a metrics emitter under the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{client: client, namespace: namespace}
}

// Count emits a count metric with optional dimensions
func (m *Metrics) Count(ctx context.Context, name string, value float64, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	// Metrics are best effort; a failed emit never fails the operation
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}

// Duration emits a latency metric in milliseconds
func (m *Metrics) Duration(ctx context.Context, name string, d time.Duration) {
	if m == nil || m.client == nil {
		return
	}

	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Value:      aws.Float64(float64(d.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(time.Now()),
		}},
	})
}

// RecordDispatch emits the outcome counts of one notification dispatch
func (m *Metrics) RecordDispatch(ctx context.Context, eventType string, sent, failedTransient, removedExpired int) {
	dims := map[string]string{"EventType": eventType}
	m.Count(ctx, "NotificationsSent", float64(sent), dims)
	if failedTransient > 0 {
		m.Count(ctx, "NotificationsFailedTransient", float64(failedTransient), dims)
	}
	if removedExpired > 0 {
		m.Count(ctx, "SubscriptionsPruned", float64(removedExpired), dims)
	}
}
