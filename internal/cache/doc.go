// Package cache stores rendered report payloads so repeated dashboard reads
// and identical tool calls within the TTL skip the upstream APIs.
//
// Two implementations exist: Noop, used when no cache URL is configured, and
// Redis, backed by github.com/redis/go-redis/v9. Keys are derived from the
// tool name, the resolved site key and a digest of the typed arguments:
//
//	ua:report:<tool>:<site>:<sha256 hex>
package cache
