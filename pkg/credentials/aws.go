package credentials

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// AWSProvider adapts a Provider to aws.CredentialsProvider so SDK clients
// sign requests with the provider's current credentials.
type AWSProvider struct {
	provider Provider
}

var _ aws.CredentialsProvider = (*AWSProvider)(nil)

// NewAWSProvider wraps p.
func NewAWSProvider(p Provider) *AWSProvider {
	return &AWSProvider{provider: p}
}

// Retrieve implements aws.CredentialsProvider. It does not fetch; it returns
// whatever p currently holds, or ErrCredentialsNotFound.
func (a *AWSProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return aws.Credentials{}, err
	}

	c, err := a.provider.Retrieve()
	if err != nil {
		return aws.Credentials{}, err
	}

	return aws.Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		Source:          c.ProviderName,
		CanExpire:       c.CanExpire,
		Expires:         c.Expires,
	}, nil
}
