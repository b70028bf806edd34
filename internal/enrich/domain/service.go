package domain

import "context"

// Location is the detail shape the bulk lookup returns per IP.
type Location struct {
	City   string `json:"city"`
	Region string `json:"region"`
	Postal string `json:"postal"`
}

// LookupResult is one per-IP answer from the collaborator. Err carries
// the raw upstream value whenever it was not a detail object; such
// entries are skipped, never fatal.
type LookupResult struct {
	Location Location
	Err      string
}

// Resolver is the external bulk-lookup collaborator. A transport or
// API failure is reported for the whole batch through the error
// return; the engine degrades it to zero resolutions for that batch.
type Resolver interface {
	ResolveBatch(ctx context.Context, ips []string) (map[string]LookupResult, error)
}

// Result reports one enrichment pass.
type Result struct {
	Selected      int
	Batches       int
	FailedBatches int
	Skipped       int
	Resolved      int64
}

// Service selects unresolved addresses, fans batches out to the
// resolver and merges accepted answers back into the store.
type Service interface {
	ResolveUnresolved(ctx context.Context) (Result, error)
}
