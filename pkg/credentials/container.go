package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ContainerCredentials is the payload served by the container credentials
// endpoint.
type ContainerCredentials struct {
	RoleArn         string    `json:"RoleArn"`
	AccessKeyID     string    `json:"AccessKeyId"`
	SecretAccessKey string    `json:"SecretAccessKey"`
	Token           string    `json:"Token"`
	Expiration      time.Time `json:"Expiration"`
}

// payloadFields lists the accepted names of every payload field. The first
// name is the one the endpoint documents.
var payloadFields = struct {
	roleArn, accessKeyID, secretAccessKey, token, expiration []string
}{
	roleArn:         []string{"RoleArn", "role_arn"},
	accessKeyID:     []string{"AccessKeyId", "access_key_id"},
	secretAccessKey: []string{"SecretAccessKey", "secret_access_key"},
	token:           []string{"Token", "token"},
	expiration:      []string{"Expiration", "expiration"},
}

var errNotObject = errors.New("payload is not a JSON object")

// ParseContainerCredentials decodes an endpoint response body. All five
// fields are required.
func ParseContainerCredentials(body []byte) (*ContainerCredentials, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("payload is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, errNotObject
	}

	var (
		c    ContainerCredentials
		errs []error
	)
	c.RoleArn = requiredString(doc, payloadFields.roleArn, &errs)
	c.AccessKeyID = requiredString(doc, payloadFields.accessKeyID, &errs)
	c.SecretAccessKey = requiredString(doc, payloadFields.secretAccessKey, &errs)
	c.Token = requiredString(doc, payloadFields.token, &errs)

	if exp := requiredString(doc, payloadFields.expiration, &errs); exp != "" {
		t, err := time.Parse(time.RFC3339, exp)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", payloadFields.expiration[0], err))
		} else {
			c.Expiration = t.UTC()
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &c, nil
}

func requiredString(doc gjson.Result, names []string, errs *[]error) string {
	for _, name := range names {
		v := doc.Get(name)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.String {
			*errs = append(*errs, fmt.Errorf("field %s: expected string, got %s", name, v.Type))
			return ""
		}
		return v.String()
	}
	*errs = append(*errs, fmt.Errorf("missing required field %s", names[0]))
	return ""
}

// Credentials converts the payload into a credentials value.
func (c *ContainerCredentials) Credentials() Credentials {
	return Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.Token,
		ProviderName:    ContainerProviderName,
		CanExpire:       true,
		Expires:         c.Expiration,
		RoleArn:         c.RoleArn,
	}
}

// TTL returns the whole seconds left until the payload expires. It is never
// negative; an expired payload has a TTL of zero.
func (c *ContainerCredentials) TTL(now time.Time) time.Duration {
	ttl := c.Expiration.Sub(now).Truncate(time.Second)
	if ttl < 0 {
		return 0
	}
	return ttl
}
