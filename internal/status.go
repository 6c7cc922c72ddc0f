package internal

import (
	"strings"

	"github.com/glistman/aws-credentials/pkg/credentials"
)

// NewProviderStatus builds a printable status from a provider snapshot.
// accessKeyID is masked.
func NewProviderStatus(s credentials.State, accessKeyID string) ProviderStatus {
	st := ProviderStatus{
		Endpoint:       s.URL,
		HasCredentials: s.HasCredentials,
		AccessKeyID:    MaskAccessKeyID(accessKeyID),
		RoleArn:        s.RoleArn,
		TTL:            Seconds(s.TTL),
		InError:        s.InError,
		NextRefresh:    Seconds(s.WaitInterval),
	}
	if s.HasCredentials && !s.Expiration.IsZero() {
		exp := s.Expiration
		st.Expiration = &exp
	}
	return st
}

// MaskAccessKeyID keeps the first four and last four characters of id.
func MaskAccessKeyID(id string) string {
	if len(id) <= 8 {
		return strings.Repeat("*", len(id))
	}
	return id[:4] + strings.Repeat("*", len(id)-8) + id[len(id)-4:]
}
