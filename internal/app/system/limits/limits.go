// Package limits holds request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
package limits

const (
	// MaxJSONBody is the maximum size accepted for a JSON request body.
	// Post bodies and event descriptions fit comfortably under this.
	MaxJSONBody = 1 << 20 // 1 MB
)
