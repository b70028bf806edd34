package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	orderdomain "github.com/smallbiznis/geotally/internal/order/domain"
	"github.com/smallbiznis/geotally/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Orders orderdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	orders orderdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("report.service"),
		orders: p.Orders,
	}
}

// dateLayouts covers the formats seen in upstream order exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

func (s *Service) Generate(ctx context.Context, state string, year int) ([]domain.Row, error) {
	orders, err := s.orders.FindAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	totals := make(map[string][4]float64)
	matched := 0
	for _, o := range orders {
		if o.City == "" {
			continue
		}
		date, ok := parseDate(o.Date)
		if !ok {
			continue
		}
		if o.State != state || date.Year() != year {
			continue
		}
		matched++
		quarter := int(date.Month()-1)/3 + 1
		q := totals[o.City]
		q[quarter-1] += parseAmount(o.SaleAmount)
		totals[o.City] = q
	}

	if matched == 0 {
		return nil, domain.ErrNoData
	}

	rows := make([]domain.Row, 0, len(totals))
	for city, quarters := range totals {
		row := domain.Row{City: city, Quarters: quarters}
		for _, v := range quarters {
			row.Total += v
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].City < rows[j].City
	})
	return rows, nil
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount strips everything but digits and decimal points before
// parsing, so "$1,234.56" and "USD 12" both work. Unparseable input
// counts as zero, never an error.
func parseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	amount, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return amount
}
