package credentials

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
)

const (
	// ContainerProviderName is the ProviderName of credentials from a
	// ContainerProvider.
	ContainerProviderName = "ContainerProvider"

	// DefaultRetryInterval is the delay between attempts while the endpoint
	// is unreachable, and the first delay when the initial fetch fails.
	DefaultRetryInterval = time.Second
)

// ContainerProvider holds credentials fetched from the container credentials
// endpoint and refreshes them when they expire.
//
// Reads take a shared lock. Reload fetches without holding the lock and
// installs the new credentials, TTL and error flag together, so readers see
// either the old state or the new one. Reloads are serialized.
type ContainerProvider struct {
	source        Source
	lookupEnv     LookupEnvFunc
	logger        logr.Logger
	clock         clock.Clock
	retryInterval time.Duration
	metrics       *Metrics

	reloadMu sync.Mutex

	mu          sync.RWMutex
	current     *Credentials
	url         string
	ttl         time.Duration
	inError     bool
	roleArn     string
	expiresAt   time.Time
	lastRefresh time.Time

	readyOnce sync.Once
	ready     chan struct{}
}

// State is a consistent copy of a ContainerProvider's fields.
type State struct {
	HasCredentials bool
	URL            string
	TTL            time.Duration
	InError        bool
	RoleArn        string
	Expiration     time.Time
	LastRefresh    time.Time
	WaitInterval   time.Duration
}

// NewContainerProvider resolves the endpoint URL and performs one
// synchronous fetch. It never fails: without an endpoint, or when the fetch
// fails, the provider starts empty with a TTL of one retry interval and Run
// keeps trying.
func NewContainerProvider(ctx context.Context, opts ...Option) *ContainerProvider {
	p := &ContainerProvider{
		lookupEnv:     os.LookupEnv,
		logger:        logr.Discard(),
		clock:         clock.RealClock{},
		retryInterval: DefaultRetryInterval,
		ready:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.source == nil {
		p.source = NewHTTPSource(p.lookupEnv)
	}
	p.ttl = p.retryInterval

	if p.url == "" {
		url, ok := ResolveURL(p.lookupEnv)
		if !ok {
			p.logger.Info("container credentials endpoint not configured", "env", RelativeURIEnvVar)
			return p
		}
		p.url = url
	}

	creds, err := p.source.Fetch(ctx, p.url)
	if err != nil {
		p.logger.Error(err, "initial credentials fetch failed", "url", p.url)
		p.metrics.observeFailure()
		return p
	}

	p.mu.Lock()
	ttl := p.installLocked(creds)
	p.mu.Unlock()
	p.installed(creds, ttl)
	return p
}

// Retrieve returns the current credentials, or ErrCredentialsNotFound if none
// have been fetched yet.
func (p *ContainerProvider) Retrieve() (Credentials, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return Credentials{}, ErrCredentialsNotFound
	}
	return *p.current, nil
}

// Expiration returns the expiry of the current credentials. ok is false when
// there are none.
func (p *ContainerProvider) Expiration() (t time.Time, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return time.Time{}, false
	}
	return p.expiresAt, true
}

// WaitInterval is the delay before the next reload: the retry interval after
// a failure, otherwise the TTL granted by the last successful fetch.
func (p *ContainerProvider) WaitInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.waitIntervalLocked()
}

func (p *ContainerProvider) waitIntervalLocked() time.Duration {
	if p.inError {
		return p.retryInterval
	}
	return p.ttl
}

// Ready is closed once credentials have been installed for the first time.
func (p *ContainerProvider) Ready() <-chan struct{} {
	return p.ready
}

// State returns a snapshot of the provider's fields.
func (p *ContainerProvider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return State{
		HasCredentials: p.current != nil,
		URL:            p.url,
		TTL:            p.ttl,
		InError:        p.inError,
		RoleArn:        p.roleArn,
		Expiration:     p.expiresAt,
		LastRefresh:    p.lastRefresh,
		WaitInterval:   p.waitIntervalLocked(),
	}
}

// Reload fetches fresh credentials. On success the credentials, TTL and
// error flag are replaced together; on failure the current credentials are
// kept and the error flag is set. If ctx is cancelled the state is left as
// it was.
func (p *ContainerProvider) Reload(ctx context.Context) {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	p.mu.RLock()
	url := p.url
	p.mu.RUnlock()

	if url == "" {
		resolved, ok := ResolveURL(p.lookupEnv)
		if !ok {
			p.logger.Error(ErrCredentialsEnvNotFound, "cannot reload credentials")
			p.markError("")
			return
		}
		p.logger.Info("container credentials endpoint discovered", "url", resolved)
		url = resolved
	}

	creds, err := p.source.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.V(1).Info("credentials reload cancelled", "url", url)
			return
		}
		p.logger.Error(err, "failed to reload credentials", "url", url)
		p.markError(url)
		return
	}

	p.mu.Lock()
	p.url = url
	ttl := p.installLocked(creds)
	p.mu.Unlock()
	p.installed(creds, ttl)
}

func (p *ContainerProvider) markError(url string) {
	p.mu.Lock()
	if url != "" {
		p.url = url
	}
	p.inError = true
	p.mu.Unlock()

	p.metrics.observeFailure()
}

func (p *ContainerProvider) installLocked(c *ContainerCredentials) time.Duration {
	now := p.clock.Now()
	creds := c.Credentials()

	p.current = &creds
	p.ttl = c.TTL(now)
	p.inError = false
	p.roleArn = c.RoleArn
	p.expiresAt = c.Expiration
	p.lastRefresh = now
	return p.ttl
}

// installed runs the side effects of a successful fetch outside the lock.
func (p *ContainerProvider) installed(c *ContainerCredentials, ttl time.Duration) {
	if ttl == 0 {
		p.logger.Info("endpoint returned expired credentials", "expiration", c.Expiration)
	} else {
		p.logger.V(1).Info("credentials refreshed", "roleArn", c.RoleArn, "ttl", ttl)
	}
	p.metrics.observeSuccess(ttl)
	p.readyOnce.Do(func() { close(p.ready) })
}
