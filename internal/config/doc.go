// Package config resolves the user-facing configuration shape — local files plus
// any number of remote configuration documents — into the single ResolvedConfig
// the rest of the system runs from.
//
// The pipeline runs in three stages: Schema & Transform (interpolating ${VAR}
// placeholders, inferring transport, dropping disabled entries), the SSRF-guarded
// remote fetch with a disk-backed cache for resilience against transient remote
// outages, and the configurable merge of remote server maps into the local one.
package config
