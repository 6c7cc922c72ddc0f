// Package credentials keeps short-lived AWS credentials available to a
// process.
//
// Credentials consist of an access key ID, a secret access key as well as an
// optional session token. A Provider hands out the current set. Two
// providers are implemented:
//
//   - StaticProvider returns a fixed set and never refreshes.
//   - ContainerProvider fetches credentials from the container credentials
//     endpoint (169.254.170.2 plus AWS_CONTAINER_CREDENTIALS_RELATIVE_URI)
//     and keeps them fresh with a background refresh loop started by Run.
//
// Typical use:
//
//	p := credentials.NewContainerProvider(ctx, credentials.WithLogger(logger))
//	go p.Run(ctx)
//
//	creds, err := p.Retrieve()
//	if errors.Is(err, credentials.ErrCredentialsNotFound) {
//		// nothing fetched yet
//	}
package credentials
