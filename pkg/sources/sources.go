// Package sources provides system property sources for the placeholder
// resolver: per-key secret files, HashiCorp Vault and AWS Secrets Manager.
// Every source implements properties.Source; remote lookup failures are
// logged and reported as misses so the resolver's fallback chain can keep
// going (an unresolved token is left verbatim, never an error).
package sources
