package credentials

import "os"

const (
	// RelativeURIEnvVar holds the path of the credentials endpoint.
	RelativeURIEnvVar = "AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"
	// AuthorizationTokenEnvVar optionally holds a token sent in the
	// Authorization header.
	AuthorizationTokenEnvVar = "AWS_CONTAINER_AUTHORIZATION_TOKEN"
	// ContainerHost is the link-local address of the credentials endpoint.
	ContainerHost = "http://169.254.170.2"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// ResolveURL builds the credentials endpoint URL from the environment. The
// second result is false when RelativeURIEnvVar is unset or empty.
func ResolveURL(lookup LookupEnvFunc) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	path, ok := lookup(RelativeURIEnvVar)
	if !ok || path == "" {
		return "", false
	}
	return ContainerHost + path, true
}
