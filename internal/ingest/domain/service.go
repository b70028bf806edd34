package domain

import "context"

// LoadResult reports one orders-file load. Read counts data rows in
// the file, Inserted the orders actually created (re-loads insert 0).
type LoadResult struct {
	Read     int
	Skipped  int
	Inserted int64
	NewIPs   int64
}

// MergeResult reports one ip-mapping merge. Valid counts rows that
// survived IP validation, Assigned the orders whose ip_address was
// updated, NewIPs the addresses stored for the first time.
type MergeResult struct {
	Read     int
	Valid    int
	Assigned int64
	NewIPs   int64
}

// Service is the merge/join engine over the orders and ip_data tables.
// Every operation is safe to re-run.
type Service interface {
	// LoadOrders upserts the orders file with ignore-on-conflict
	// semantics: an order number already present keeps all its fields.
	LoadOrders(ctx context.Context, path string) (LoadResult, error)

	// MergeIPMapping validates each (order_number, raw_ip) row, drops
	// invalid IPs, de-duplicates by order number with last row wins,
	// overwrites ip_address on matching orders and seeds ip_data with
	// every validated address. Unknown order numbers are ignored and
	// never create orders.
	MergeIPMapping(ctx context.Context, path string) (MergeResult, error)

	// PropagateLocations joins ip_data onto orders by ip_address and
	// overwrites city/state/zip wherever a record exists.
	PropagateLocations(ctx context.Context) (int64, error)

	// ExportOrders dumps the joined orders table to a CSV file.
	ExportOrders(ctx context.Context, path string) (int, error)
}
