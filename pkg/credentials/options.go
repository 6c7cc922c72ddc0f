package credentials

import (
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
)

// Option configures a ContainerProvider.
type Option func(*ContainerProvider)

// WithURL sets the credentials endpoint URL instead of discovering it from
// the environment.
func WithURL(url string) Option {
	return func(p *ContainerProvider) {
		p.url = url
	}
}

// WithSource replaces the HTTP source used to fetch credentials.
func WithSource(s Source) Option {
	return func(p *ContainerProvider) {
		p.source = s
	}
}

// WithLookupEnv replaces os.LookupEnv for endpoint discovery.
func WithLookupEnv(f LookupEnvFunc) Option {
	return func(p *ContainerProvider) {
		p.lookupEnv = f
	}
}

// WithLogger sets the logger. Successful reloads are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(p *ContainerProvider) {
		p.logger = l
	}
}

// WithClock sets the clock used for TTLs and the refresh loop timer.
func WithClock(c clock.Clock) Option {
	return func(p *ContainerProvider) {
		p.clock = c
	}
}

// WithRetryInterval sets the delay between attempts while the endpoint is
// failing. Non-positive values are ignored.
func WithRetryInterval(d time.Duration) Option {
	return func(p *ContainerProvider) {
		if d > 0 {
			p.retryInterval = d
		}
	}
}

// WithMetrics records reload outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(p *ContainerProvider) {
		p.metrics = m
	}
}
