package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels shared by the auth counters.
const (
	OutcomeSuccess            = "success"
	OutcomeDuplicateEmail     = "duplicate_email"
	OutcomeValidation         = "validation"
	OutcomeUserNotFound       = "user_not_found"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// AuthMetrics counts registration, login and guard outcomes.
type AuthMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	rejections    *prometheus.CounterVec
}

// NewAuthMetrics registers the auth counters on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_guard_rejections_total",
		Help: "Requests rejected by the access guard.",
	}, []string{"reason"})
	reg.MustRegister(registrations, logins, rejections)
	return &AuthMetrics{
		registrations: registrations,
		logins:        logins,
		rejections:    rejections,
	}
}

func (m *AuthMetrics) IncRegistration(outcome string) {
	if m == nil || m.registrations == nil {
		return
	}
	m.registrations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *AuthMetrics) IncLogin(outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *AuthMetrics) IncGuardRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
