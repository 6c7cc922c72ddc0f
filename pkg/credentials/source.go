package credentials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFetchTimeout bounds a single HTTPSource request.
const DefaultFetchTimeout = 5 * time.Second

// maxPayloadSize caps the response body read from the endpoint.
const maxPayloadSize = 1 << 20

// Source fetches a credentials payload from url. Implementations do not
// retry or cache.
type Source interface {
	Fetch(ctx context.Context, url string) (*ContainerCredentials, error)
}

// HTTPSource fetches credentials with a plain HTTP GET.
type HTTPSource struct {
	// Client defaults to an http.Client with DefaultFetchTimeout.
	Client *http.Client
	// AuthToken, when set, is sent as the Authorization header.
	AuthToken string
}

// NewHTTPSource returns an HTTPSource with the default client. The
// authorization token is taken from AuthorizationTokenEnvVar when lookup
// finds it.
func NewHTTPSource(lookup LookupEnvFunc) *HTTPSource {
	s := &HTTPSource{
		Client: &http.Client{Timeout: DefaultFetchTimeout},
	}
	if lookup != nil {
		if token, ok := lookup(AuthorizationTokenEnvVar); ok {
			s.AuthToken = token
		}
	}
	return s
}

// Fetch implements Source. Every failure is returned as a *RequestError.
func (s *HTTPSource) Fetch(ctx context.Context, url string) (*ContainerCredentials, error) {
	creds, err := s.fetch(ctx, url)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	return creds, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string) (*ContainerCredentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.AuthToken != "" {
		req.Header.Set("Authorization", s.AuthToken)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	creds, err := ParseContainerCredentials(body)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return creds, nil
}
