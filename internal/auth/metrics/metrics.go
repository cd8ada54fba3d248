// Package metrics exposes prometheus counters for credential operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registrations prometheus.Counter
	LoginSuccess  prometheus.Counter
	LoginFailure  prometheus.Counter
	TokensRevoked prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_registrations_total",
			Help: "Total accounts registered",
		}),
		LoginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_login_success_total",
			Help: "Total successful logins",
		}),
		LoginFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_login_failure_total",
			Help: "Total failed logins",
		}),
		TokensRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_tokens_revoked_total",
			Help: "Total tokens revoked by logout",
		}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	if m != nil {
		m.Registrations.Inc()
	}
}

func (m *Metrics) IncrementLoginSuccess() {
	if m != nil {
		m.LoginSuccess.Inc()
	}
}

func (m *Metrics) IncrementLoginFailure() {
	if m != nil {
		m.LoginFailure.Inc()
	}
}

func (m *Metrics) IncrementTokensRevoked() {
	if m != nil {
		m.TokensRevoked.Inc()
	}
}
