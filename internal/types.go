package internal

import (
	"encoding/json"
	"time"
)

// Identity is the principal behind a set of credentials, as reported by STS.
type Identity struct {
	Account string `json:"account"`
	Arn     string `json:"arn"`
	UserID  string `json:"user_id"`
}

// ProviderStatus is the printable state of a credentials provider.
type ProviderStatus struct {
	Endpoint       string     `json:"endpoint"`
	HasCredentials bool       `json:"has_credentials"`
	AccessKeyID    string     `json:"access_key_id,omitempty"`
	RoleArn        string     `json:"role_arn,omitempty"`
	Expiration     *time.Time `json:"expiration,omitempty"`
	TTL            Seconds    `json:"ttl_seconds"`
	InError        bool       `json:"in_error"`
	NextRefresh    Seconds    `json:"next_refresh_seconds"`
}

// Seconds is a duration encoded in JSON as whole seconds.
type Seconds time.Duration

// Duration converts s back to a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// MarshalJSON implements json.Marshaler.
func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(time.Duration(s) / time.Second))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Seconds(time.Duration(n) * time.Second)
	return nil
}
