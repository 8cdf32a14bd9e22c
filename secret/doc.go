// Package secret resolves configuration values that may reference secrets.
//
// A value is first expanded against the environment (see ExpandEnvStrict),
// then any "secretref:<provider>:<ref>" reference in it is replaced by the
// provider's answer. Two providers are built in:
//
//	secretref:env:WECHAT_APPSECRET         value of an environment variable
//	secretref:file:/run/secrets/appsecret  contents of a file, trailing newline removed
//
// This keeps the application secret and the admin signing key out of
// command lines and process listings.
package secret
