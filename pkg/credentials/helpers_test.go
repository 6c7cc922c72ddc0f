package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

var errUnreachable = errors.New("connect: no route to host")

// fakeSource serves results from fetch, counting calls. call is 1-based.
type fakeSource struct {
	mu    sync.Mutex
	n     int
	urls  []string
	fetch func(ctx context.Context, call int) (*ContainerCredentials, error)
}

func (f *fakeSource) Fetch(ctx context.Context, url string) (*ContainerCredentials, error) {
	f.mu.Lock()
	f.n++
	call := f.n
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	return f.fetch(ctx, call)
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func (f *fakeSource) lastURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.urls) == 0 {
		return ""
	}
	return f.urls[len(f.urls)-1]
}

// numberedPayload returns credentials whose key ID and secret both end in n.
func numberedPayload(clk clock.PassiveClock, n int, ttl time.Duration) *ContainerCredentials {
	return &ContainerCredentials{
		RoleArn:         "arn:aws:iam::123456789012:role/task-role",
		AccessKeyID:     fmt.Sprintf("AKID-%d", n),
		SecretAccessKey: fmt.Sprintf("secret-%d", n),
		Token:           fmt.Sprintf("token-%d", n),
		Expiration:      clk.Now().Add(ttl),
	}
}

func mapEnv(env map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func noEnv(string) (string, bool) {
	return "", false
}
