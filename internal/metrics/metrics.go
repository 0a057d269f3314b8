package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the prometheus collectors used across the bot.
type Metrics struct {
	Registry *prometheus.Registry

	IncomingMessages *prometheus.CounterVec
	BotReplies       prometheus.Counter
	ProviderRequests *prometheus.CounterVec
	HandleFailures   prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		IncomingMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_messages_total",
			Help:      "User messages handled, labelled by classified intent.",
		}, []string{"intent"}),
		BotReplies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_replies_total",
			Help:      "Bot messages appended to conversations.",
		}),
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Calls to external data providers, labelled by provider and outcome.",
		}, []string{"provider", "outcome"}),
		HandleFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handle_failures_total",
			Help:      "Message turns that ended on the failure path.",
		}),
	}
}
