// Package stats defines the metric interfaces the rest of the module reports
// to.  Backends are plugged in through a StatsFactory: NoOpStatsFactory
// discards everything, NewPrometheusFactory exports to a prometheus registry.
package stats

type CounterStat interface {
	Inc()
	Add(float64)
}

type GaugeStat interface {
	Set(float64)
	Get() float64

	Inc()
	Add(float64)

	Dec()
	Sub(float64)
}

type SummaryStat interface {
	Observe(float64)
}

// Creates metric handles.  tags become labels on backends that support
// them.  Calling a constructor twice with the same metric name and tag keys
// yields handles reporting to the same underlying series.
type StatsFactory interface {
	NewCounter(
		metric string,
		tags map[string]string) CounterStat

	NewGauge(
		metric string,
		tags map[string]string) GaugeStat

	NewSummary(
		metric string,
		tags map[string]string) SummaryStat
}
