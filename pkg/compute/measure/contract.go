package measure

import "time"

type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	AddDuration(elapsed time.Duration)
	AddWaitDuration(parentName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGWaitDuration() map[string]time.Duration
	SetTotalDuration(totalDuration time.Duration)
	GetTotalDuration() time.Duration
}
