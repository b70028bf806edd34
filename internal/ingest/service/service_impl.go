package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smallbiznis/geotally/internal/ingest/domain"
	ipaddrdomain "github.com/smallbiznis/geotally/internal/ipaddr/domain"
	orderdomain "github.com/smallbiznis/geotally/internal/order/domain"
	"github.com/smallbiznis/geotally/pkg/iputil"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Orders orderdomain.Repository
	IPs    ipaddrdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	orders orderdomain.Repository
	ips    ipaddrdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("ingest.service"),
		orders: p.Orders,
		ips:    p.IPs,
	}
}

func (s *Service) LoadOrders(ctx context.Context, path string) (domain.LoadResult, error) {
	rows, err := readCSV(path)
	if err != nil {
		return domain.LoadResult{}, fmt.Errorf("read orders file: %w", err)
	}

	result := domain.LoadResult{Read: len(rows)}
	orders := make([]*orderdomain.Order, 0, len(rows))
	var addrs []string
	for _, row := range rows {
		number := row["order_number"]
		if number == "" {
			result.Skipped++
			continue
		}
		order := &orderdomain.Order{
			OrderNumber: number,
			Date:        row["date"],
			City:        row["city"],
			State:       row["state"],
			Zip:         row["zip"],
			SaleAmount:  row["sale_amount"],
		}
		// Source files occasionally carry an ip_address column; only
		// canonical addresses make it into the store.
		if canon, ok := iputil.Canonical(row["ip_address"]); ok {
			order.IPAddress = &canon
			addrs = append(addrs, canon)
		}
		orders = append(orders, order)
	}

	inserted, err := s.orders.InsertIgnore(ctx, s.db, orders)
	if err != nil {
		return result, fmt.Errorf("insert orders: %w", err)
	}
	result.Inserted = inserted

	newIPs, err := s.ips.InsertIgnore(ctx, s.db, addrs)
	if err != nil {
		return result, fmt.Errorf("seed ip records: %w", err)
	}
	result.NewIPs = newIPs
	return result, nil
}

func (s *Service) MergeIPMapping(ctx context.Context, path string) (domain.MergeResult, error) {
	rows, err := readCSV(path)
	if err != nil {
		return domain.MergeResult{}, fmt.Errorf("read ip mapping file: %w", err)
	}

	result := domain.MergeResult{Read: len(rows)}

	// Last row wins per order number; every validated address is
	// remembered so ip_data sees it even when the order-level
	// de-duplication drops the row.
	byOrder := make(map[string]string, len(rows))
	orderSeq := make([]string, 0, len(rows))
	addrs := make([]string, 0, len(rows))
	for _, row := range rows {
		number := row["order_number"]
		canon, ok := iputil.Canonical(row["ip_address"])
		if number == "" || !ok {
			continue
		}
		result.Valid++
		addrs = append(addrs, canon)
		if _, seen := byOrder[number]; !seen {
			orderSeq = append(orderSeq, number)
		}
		byOrder[number] = canon
	}

	assignments := make([]orderdomain.IPAssignment, 0, len(orderSeq))
	for _, number := range orderSeq {
		assignments = append(assignments, orderdomain.IPAssignment{
			OrderNumber: number,
			IPAddress:   byOrder[number],
		})
	}

	assigned, err := s.orders.AssignIPs(ctx, s.db, assignments)
	if err != nil {
		return result, fmt.Errorf("assign order ips: %w", err)
	}
	result.Assigned = assigned

	newIPs, err := s.ips.InsertIgnore(ctx, s.db, addrs)
	if err != nil {
		return result, fmt.Errorf("seed ip records: %w", err)
	}
	result.NewIPs = newIPs
	return result, nil
}

func (s *Service) PropagateLocations(ctx context.Context) (int64, error) {
	updated, err := s.orders.PropagateLocations(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("propagate locations: %w", err)
	}
	return updated, nil
}

func (s *Service) ExportOrders(ctx context.Context, path string) (int, error) {
	orders, err := s.orders.FindAll(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("read orders: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"order_number", "date", "city", "state", "zip", "sale_amount", "ip_address"}
	if err := w.Write(header); err != nil {
		return 0, err
	}
	for _, o := range orders {
		ip := ""
		if o.IPAddress != nil {
			ip = *o.IPAddress
		}
		record := []string{o.OrderNumber, o.Date, o.City, o.State, o.Zip, o.SaleAmount, ip}
		if err := w.Write(record); err != nil {
			return 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}
	return len(orders), f.Close()
}

// readCSV reads a whole file into header-keyed rows. Headers are
// lower-cased; legacy spellings from the upstream exports ("Zip",
// "$ sale") map onto the canonical column names. Short records leave
// the missing columns empty.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = normalizeColumn(h)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeColumn(h string) string {
	col := strings.ToLower(strings.TrimSpace(h))
	switch col {
	case "$ sale", "sale":
		return "sale_amount"
	case "zip code", "zipcode":
		return "zip"
	}
	return col
}
