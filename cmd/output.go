package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/glistman/aws-credentials/pkg/credentials"
)

const (
	formatEnv     = "env"
	formatJSON    = "json"
	formatProcess = "process"
)

// containerOutput is the container credentials endpoint format.
type containerOutput struct {
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	Token           string `json:"Token,omitempty"`
	Expiration      string `json:"Expiration,omitempty"`
}

// processOutput is the credential_process format.
// See: https://docs.aws.amazon.com/cli/latest/userguide/cli-configure-sourcing-external.html
type processOutput struct {
	Version         int    `json:"Version"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken,omitempty"`
	Expiration      string `json:"Expiration,omitempty"`
}

// writeCredentials prints c in the requested format. The expiration is
// omitted for credentials that do not expire.
func writeCredentials(w io.Writer, format string, c credentials.Credentials) error {
	var exp string
	if c.CanExpire {
		exp = c.Expires.UTC().Format(time.RFC3339)
	}

	switch format {
	case formatEnv:
		// Output shell-compatible export commands
		fmt.Fprintf(w, "export AWS_ACCESS_KEY_ID=%s\n", c.AccessKeyID)
		fmt.Fprintf(w, "export AWS_SECRET_ACCESS_KEY=%s\n", c.SecretAccessKey)
		if c.HasSessionToken() {
			fmt.Fprintf(w, "export AWS_SESSION_TOKEN=%s\n", c.SessionToken)
		}
		return nil
	case formatJSON:
		return encodeJSON(w, containerOutput{
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
			Token:           c.SessionToken,
			Expiration:      exp,
		})
	case formatProcess:
		return encodeJSON(w, processOutput{
			Version:         1,
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
			SessionToken:    c.SessionToken,
			Expiration:      exp,
		})
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatEnv, formatJSON, formatProcess)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
