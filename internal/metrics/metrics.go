package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "awards"

// Login results
const (
	LoginPlayer  = "player"
	LoginCoach   = "coach"
	LoginInvalid = "invalid"
)

// Metrics holds the application counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	logins   *prometheus.CounterVec
	votes    prometheus.Counter
	bonuses  prometheus.Counter
	resyncs  prometheus.Counter
	messages *prometheus.CounterVec
}

// New registers the counters and the Go runtime collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Ballots stored.",
		}),
		bonuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonuses_total",
			Help:      "Coach bonuses awarded.",
		}),
		resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resyncs_total",
			Help:      "Tally reconciliations run.",
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages stored by direction.",
		}, []string{"direction"}),
	}
	m.registry.MustRegister(
		m.logins, m.votes, m.bonuses, m.resyncs, m.messages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) VoteCast() {
	if m == nil {
		return
	}
	m.votes.Inc()
}

func (m *Metrics) BonusGiven() {
	if m == nil {
		return
	}
	m.bonuses.Inc()
}

func (m *Metrics) Resynced() {
	if m == nil {
		return
	}
	m.resyncs.Inc()
}

func (m *Metrics) MessageStored(direction string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(direction).Inc()
}
