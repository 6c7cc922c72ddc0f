package internal

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/glistman/aws-credentials/pkg/credentials"
	"github.com/go-logr/logr"
)

// EndpointHandler serves a provider's credentials in the container
// credentials format, so a child process can use them through
// AWS_CONTAINER_CREDENTIALS_FULL_URI.
type EndpointHandler struct {
	provider  credentials.Provider
	logger    logr.Logger
	authToken string // Optional auth token for endpoint security
}

// endpointResponse mirrors the payload served at 169.254.170.2.
type endpointResponse struct {
	RoleArn         string `json:"RoleArn,omitempty"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	Token           string `json:"Token,omitempty"`
	Expiration      string `json:"Expiration,omitempty"`
}

type endpointError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEndpointHandler creates a handler serving p.
func NewEndpointHandler(p credentials.Provider, logger logr.Logger) *EndpointHandler {
	return &EndpointHandler{provider: p, logger: logger}
}

// SetAuthToken sets the token clients must send in the Authorization header,
// either bare (as the AWS SDKs send it) or as a Bearer token.
func (h *EndpointHandler) SetAuthToken(token string) {
	h.authToken = token
}

// ServeHTTP implements http.Handler.
func (h *EndpointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeEndpointError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "only GET is supported")
		return
	}

	if h.authToken != "" && !h.authorized(r.Header.Get("Authorization")) {
		writeEndpointError(w, http.StatusUnauthorized, "Unauthorized", "invalid authorization token")
		return
	}

	creds, err := h.provider.Retrieve()
	if err != nil {
		if errors.Is(err, credentials.ErrCredentialsNotFound) {
			writeEndpointError(w, http.StatusServiceUnavailable, "CredentialsNotFound", "credentials are not available yet")
			return
		}
		// Log detailed error server-side but return generic message to prevent leaking sensitive info
		h.logger.Error(err, "retrieving credentials")
		writeEndpointError(w, http.StatusInternalServerError, "InternalError", "failed to get credentials")
		return
	}

	// Everything below comes from the one snapshot Retrieve returned.
	resp := endpointResponse{
		RoleArn:         creds.RoleArn,
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		Token:           creds.SessionToken,
	}
	if creds.CanExpire {
		resp.Expiration = creds.Expires.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Response already started, can't send HTTP error.
		h.logger.Error(err, "encoding credentials response")
	}
}

func (h *EndpointHandler) authorized(header string) bool {
	token := strings.TrimPrefix(header, "Bearer ")
	// Use constant-time comparison to prevent timing attacks
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.authToken)) == 1
}

func writeEndpointError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(endpointError{Code: code, Message: message})
}
