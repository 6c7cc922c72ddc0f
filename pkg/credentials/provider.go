package credentials

// Provider is the read contract shared by every credential source.
//
// Retrieve returns the current credentials or ErrCredentialsNotFound when
// none are available yet. It never performs network I/O and is safe for
// concurrent use.
type Provider interface {
	Retrieve() (Credentials, error)
}

// Compile-time interface assertions.
var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = (*ContainerProvider)(nil)
)
