package credentials

// StaticProviderName is the ProviderName of credentials from a StaticProvider.
const StaticProviderName = "StaticProvider"

// StaticProvider holds a fixed set of credentials. It never refreshes and
// never fails.
type StaticProvider struct {
	creds Credentials
}

// NewStaticProvider returns a provider for the given key pair. token may be
// empty.
func NewStaticProvider(id string, secret string, token string) *StaticProvider {
	return &StaticProvider{
		creds: Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			ProviderName:    StaticProviderName,
		},
	}
}

// Retrieve returns the credentials the provider was created with.
func (s *StaticProvider) Retrieve() (Credentials, error) {
	return s.creds, nil
}
