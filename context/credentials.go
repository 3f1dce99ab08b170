package context

import (
	stdctx "context"
	"maps"
)

// Credentials is the named secret store handed to a tool invocation
// (e.g. "movies_api_key", "api_key").
type Credentials map[string]string

// WithCredentials attaches credentials to the context. Keys already present
// in the parent are kept unless overridden by creds.
func WithCredentials(parent stdctx.Context, creds Credentials) stdctx.Context {
	merged := Credentials{}
	maps.Copy(merged, CredentialsFromContext(parent))
	for k, v := range creds {
		if v != "" {
			merged[k] = v
		}
	}
	return stdctx.WithValue(parent, credentialsKey, merged)
}

// CredentialsFromContext returns the credentials attached to ctx. The map must
// not be modified.
func CredentialsFromContext(ctx stdctx.Context) Credentials {
	if ctx == nil {
		return nil
	}
	creds, _ := ctx.Value(credentialsKey).(Credentials)
	return creds
}

// Credential looks up a single named credential.
func Credential(ctx stdctx.Context, name string) string {
	return CredentialsFromContext(ctx)[name]
}
