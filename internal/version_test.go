package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"v0.4.0", "v0.3.0", true},
		{"v0.3.1", "v0.3.0", true},
		{"v1.0.0", "v0.9.9", true},
		{"v0.10.0", "v0.9.0", true},
		{"v0.3.0", "v0.3.0", false},
		{"v0.2.9", "v0.3.0", false},
		{"0.4.0", "v0.3.0", true},
		{"v0.3.0-rc1", "v0.3.0", false},
		{"garbage", "v0.3.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNewer(tt.latest, tt.current), "IsNewer(%q, %q)", tt.latest, tt.current)
	}
}

func TestFetchLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v0.4.0","html_url":"https://github.com/glistman/aws-credentials/releases/tag/v0.4.0"}`))
	}))
	defer srv.Close()

	tag, url, err := FetchLatestVersion(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "v0.4.0", tag)
	assert.Equal(t, "https://github.com/glistman/aws-credentials/releases/tag/v0.4.0", url)
}

func TestFetchLatestVersionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, _, err := FetchLatestVersion(context.Background(), srv.URL)
	require.EqualError(t, err, "status 403")
}
