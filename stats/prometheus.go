package stats

import (
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var metricNameReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_")

type prometheusFactory struct {
	registerer prometheus.Registerer
	namespace  string

	mutex     sync.Mutex
	counters  map[string]*prometheus.CounterVec
	gauges    map[string]*prometheus.GaugeVec
	summaries map[string]*prometheus.SummaryVec
}

// NewPrometheusFactory returns a StatsFactory whose metrics are registered
// on registerer under namespace.  Tag keys become label names, so every
// call for a given metric must use the same set of tag keys.
func NewPrometheusFactory(
	registerer prometheus.Registerer,
	namespace string) StatsFactory {

	return &prometheusFactory{
		registerer: registerer,
		namespace:  namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		summaries:  make(map[string]*prometheus.SummaryVec),
	}
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registers c, or returns the equivalent collector that is already
// registered.
func (f *prometheusFactory) register(c prometheus.Collector) prometheus.Collector {
	if err := f.registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func (f *prometheusFactory) NewCounter(
	metric string,
	tags map[string]string) CounterStat {

	f.mutex.Lock()
	defer f.mutex.Unlock()

	name := metricNameReplacer.Replace(metric)
	vec, ok := f.counters[name]
	if !ok {
		vec = f.register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: f.namespace,
				Name:      name,
				Help:      metric,
			},
			labelNames(tags))).(*prometheus.CounterVec)
		f.counters[name] = vec
	}
	return vec.With(tags)
}

func (f *prometheusFactory) NewGauge(
	metric string,
	tags map[string]string) GaugeStat {

	f.mutex.Lock()
	defer f.mutex.Unlock()

	name := metricNameReplacer.Replace(metric)
	vec, ok := f.gauges[name]
	if !ok {
		vec = f.register(prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: f.namespace,
				Name:      name,
				Help:      metric,
			},
			labelNames(tags))).(*prometheus.GaugeVec)
		f.gauges[name] = vec
	}
	return &prometheusGauge{gauge: vec.With(tags)}
}

func (f *prometheusFactory) NewSummary(
	metric string,
	tags map[string]string) SummaryStat {

	f.mutex.Lock()
	defer f.mutex.Unlock()

	name := metricNameReplacer.Replace(metric)
	vec, ok := f.summaries[name]
	if !ok {
		vec = f.register(prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: f.namespace,
				Name:      name,
				Help:      metric,
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			labelNames(tags))).(*prometheus.SummaryVec)
		f.summaries[name] = vec
	}
	return vec.With(tags)
}

// prometheus gauges are write-only, so the last value written through this
// handle is mirrored locally for Get.
type prometheusGauge struct {
	gauge prometheus.Gauge
	bits  atomic.Uint64
}

func (g *prometheusGauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
	g.gauge.Set(v)
}

func (g *prometheusGauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *prometheusGauge) Inc() {
	g.Add(1)
}

func (g *prometheusGauge) Dec() {
	g.Add(-1)
}

func (g *prometheusGauge) Sub(v float64) {
	g.Add(-v)
}

func (g *prometheusGauge) Add(v float64) {
	for {
		old := g.bits.Load()
		updated := math.Float64bits(math.Float64frombits(old) + v)
		if g.bits.CompareAndSwap(old, updated) {
			break
		}
	}
	g.gauge.Add(v)
}
