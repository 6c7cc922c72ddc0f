package credentials

import "time"

// Credentials is an immutable set of AWS credentials. Values are copied to
// readers; a refresh installs a new value instead of changing an old one.
type Credentials struct {
	// AWS Access Key ID
	AccessKeyID string
	// AWS Secret Access Key
	SecretAccessKey string
	// AWS Session Token, empty when the credentials are long-lived
	SessionToken string
	// Name of provider used to retrieve credentials
	ProviderName string

	// CanExpire is set when Expires is meaningful.
	CanExpire bool
	// Expires is when the source said the credentials stop working.
	Expires time.Time
	// RoleArn is the role the credentials were issued for, if known.
	RoleArn string
}

// HasSessionToken reports whether the credentials carry a session token.
func (c Credentials) HasSessionToken() bool {
	return c.SessionToken != ""
}
