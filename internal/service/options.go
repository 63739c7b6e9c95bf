package service

import (
	"time"

	"github.com/gradaid/gradaid-api/internal/domain"
)

// Metrics receives counters from the services. A nil Metrics is replaced by a no-op.
type Metrics interface {
	CreditsDebited(usageType domain.CreditUsageType, amount int)
	DebitRejected(reason string)
	CreditsReset()
	DocumentStatusChanged(from, to domain.DocumentStatus)
	ApplicationStatusChanged(from, to domain.ApplicationStatus, automatic bool)
}

type noopMetrics struct{}

func (noopMetrics) CreditsDebited(domain.CreditUsageType, int) {}
func (noopMetrics) DebitRejected(string) {}
func (noopMetrics) CreditsReset() {}
func (noopMetrics) DocumentStatusChanged(domain.DocumentStatus, domain.DocumentStatus) {}
func (noopMetrics) ApplicationStatusChanged(domain.ApplicationStatus, domain.ApplicationStatus, bool) {}

// Option configures optional service collaborators.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics Metrics
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:     func() time.Time { return time.Now().UTC() },
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
