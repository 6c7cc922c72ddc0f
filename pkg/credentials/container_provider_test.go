package credentials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

var testStart = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestContainerProviderNoEndpoint(t *testing.T) {
	src := &fakeSource{fetch: func(context.Context, int) (*ContainerCredentials, error) {
		t.Fatal("fetch must not be called without an endpoint")
		return nil, nil
	}}
	p := NewContainerProvider(context.Background(),
		WithLookupEnv(noEnv),
		WithSource(src),
		WithLogger(testr.New(t)),
	)

	_, err := p.Retrieve()
	require.ErrorIs(t, err, ErrCredentialsNotFound)

	st := p.State()
	assert.False(t, st.InError)
	assert.False(t, st.HasCredentials)
	assert.Empty(t, st.URL)
	assert.Equal(t, time.Second, p.WaitInterval())

	p.Reload(context.Background())

	assert.True(t, p.State().InError)
	assert.Equal(t, time.Second, p.WaitInterval())
	_, err = p.Retrieve()
	require.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestContainerProviderSeedsFromEndpoint(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"AccessKeyId": "AKIDEXAMPLE",
			"SecretAccessKey": "secret",
			"Token": "tok",
			"Expiration": "` + testStart.Add(3600*time.Second).Format(time.RFC3339) + `",
			"RoleArn": "arn:aws:iam::123456789012:role/app"
		}`))
	}))
	defer srv.Close()

	p := NewContainerProvider(context.Background(),
		WithURL(srv.URL),
		WithClock(clk),
		WithLogger(testr.New(t)),
	)

	creds, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "tok", creds.SessionToken)

	st := p.State()
	assert.Equal(t, 3600*time.Second, st.TTL)
	assert.Equal(t, 3600*time.Second, st.WaitInterval)
	assert.False(t, st.InError)
	assert.Equal(t, "arn:aws:iam::123456789012:role/app", st.RoleArn)
	assert.Equal(t, testStart, st.LastRefresh)

	exp, ok := p.Expiration()
	assert.True(t, ok)
	assert.Equal(t, testStart.Add(time.Hour), exp)

	select {
	case <-p.Ready():
	default:
		t.Fatal("Ready should be closed after a successful seed")
	}
}

func TestContainerProviderResolvesURLFromEnv(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		return numberedPayload(clk, call, time.Hour), nil
	}}

	NewContainerProvider(context.Background(),
		WithLookupEnv(mapEnv(map[string]string{RelativeURIEnvVar: "/v2/credentials/xyz"})),
		WithSource(src),
		WithClock(clk),
	)

	assert.Equal(t, 1, src.calls())
	assert.Equal(t, "http://169.254.170.2/v2/credentials/xyz", src.lastURL())
}

func TestContainerProviderSeedFailure(t *testing.T) {
	src := &fakeSource{fetch: func(context.Context, int) (*ContainerCredentials, error) {
		return nil, &RequestError{URL: "http://endpoint", Err: errUnreachable}
	}}

	p := NewContainerProvider(context.Background(),
		WithURL("http://endpoint"),
		WithSource(src),
		WithLogger(testr.New(t)),
	)

	_, err := p.Retrieve()
	require.ErrorIs(t, err, ErrCredentialsNotFound)

	st := p.State()
	assert.False(t, st.InError, "a failed seed is reported lazily, not as an error")
	assert.Equal(t, time.Second, st.TTL)
	assert.Equal(t, "http://endpoint", st.URL)

	select {
	case <-p.Ready():
		t.Fatal("Ready must stay open until credentials arrive")
	default:
	}
}

func TestContainerProviderRetrieveIsIdempotent(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		return numberedPayload(clk, call, time.Hour), nil
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	first, err := p.Retrieve()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := p.Retrieve()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, src.calls())
}

func TestContainerProviderReloadSuccess(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		if call == 2 {
			return nil, errUnreachable
		}
		return numberedPayload(clk, call, 15*time.Minute), nil
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	// Fail once so the success has an error flag to clear.
	p.Reload(context.Background())
	require.True(t, p.State().InError)

	clk.Step(time.Minute)
	p.Reload(context.Background())

	creds, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "AKID-3", creds.AccessKeyID)

	st := p.State()
	assert.False(t, st.InError)
	assert.Equal(t, 15*time.Minute, st.TTL)
	assert.Equal(t, testStart.Add(time.Minute), st.LastRefresh)
}

// First fetch succeeds, the next one fails: the old credentials stay
// readable and the retry cadence drops to one second.
func TestContainerProviderReloadFailureKeepsCredentials(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		if call > 1 {
			return nil, &RequestError{URL: "http://endpoint", Err: errUnreachable}
		}
		return numberedPayload(clk, call, time.Hour), nil
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	before, err := p.Retrieve()
	require.NoError(t, err)
	require.Equal(t, time.Hour, p.WaitInterval())

	p.Reload(context.Background())

	after, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	st := p.State()
	assert.True(t, st.InError)
	assert.Equal(t, time.Hour, st.TTL, "TTL is kept, only the wait interval changes")
	assert.Equal(t, time.Second, p.WaitInterval())
}

func TestContainerProviderMalformedPayload(t *testing.T) {
	var served atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) == 1 {
			w.Write([]byte(jsonCredentials))
			return
		}
		// Expiration is missing.
		w.Write([]byte(`{"RoleArn":"arn","AccessKeyId":"AKID2","SecretAccessKey":"s2","Token":"t2"}`))
	}))
	defer srv.Close()

	p := NewContainerProvider(context.Background(), WithURL(srv.URL), WithLogger(testr.New(t)))
	before, err := p.Retrieve()
	require.NoError(t, err)

	p.Reload(context.Background())

	after, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, p.State().InError)
}

func TestContainerProviderExpiredPayload(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		return numberedPayload(clk, call, -time.Minute), nil
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	_, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), p.State().TTL)
	assert.Equal(t, time.Duration(0), p.WaitInterval())
}

func TestContainerProviderDiscoversEndpointLater(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	var (
		mu  sync.Mutex
		env = map[string]string{}
	)
	lookup := func(key string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		v, ok := env[key]
		return v, ok
	}
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		return numberedPayload(clk, call, time.Hour), nil
	}}

	p := NewContainerProvider(context.Background(), WithLookupEnv(lookup), WithSource(src), WithClock(clk))
	p.Reload(context.Background())
	require.True(t, p.State().InError)
	require.Zero(t, src.calls())

	mu.Lock()
	env[RelativeURIEnvVar] = "/late"
	mu.Unlock()

	p.Reload(context.Background())

	creds, err := p.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "AKID-1", creds.AccessKeyID)
	assert.Equal(t, ContainerHost+"/late", p.State().URL)
	assert.False(t, p.State().InError)
}

func TestContainerProviderReloadCancelled(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(ctx context.Context, call int) (*ContainerCredentials, error) {
		if call == 1 {
			return numberedPayload(clk, call, time.Hour), nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Reload(ctx)

	assert.False(t, p.State().InError)
	assert.Equal(t, time.Hour, p.WaitInterval())
}

// Readers racing with reloads must always see a key ID and secret from the
// same fetch.
func TestContainerProviderConcurrentReaders(t *testing.T) {
	clk := clocktesting.NewFakeClock(testStart)
	src := &fakeSource{fetch: func(_ context.Context, call int) (*ContainerCredentials, error) {
		if call%3 == 0 {
			return nil, errUnreachable
		}
		return numberedPayload(clk, call, time.Hour), nil
	}}
	p := NewContainerProvider(context.Background(), WithURL("http://endpoint"), WithSource(src), WithClock(clk))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				creds, err := p.Retrieve()
				if !assert.NoError(t, err) {
					return
				}
				id := strings.TrimPrefix(creds.AccessKeyID, "AKID-")
				secret := strings.TrimPrefix(creds.SecretAccessKey, "secret-")
				if !assert.Equal(t, id, secret) {
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		p.Reload(context.Background())
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 201, src.calls())
}
