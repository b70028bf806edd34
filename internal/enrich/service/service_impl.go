package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallbiznis/geotally/internal/config"
	"github.com/smallbiznis/geotally/internal/enrich/domain"
	ipaddrdomain "github.com/smallbiznis/geotally/internal/ipaddr/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Repo     ipaddrdomain.Repository
	Resolver domain.Resolver
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     ipaddrdomain.Repository
	resolver domain.Resolver

	batchSize int
	workers   int
}

func New(p Params) domain.Service {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("enrich.service"),
		repo:      p.Repo,
		resolver:  p.Resolver,
		batchSize: p.Config.BatchSize,
		workers:   workers,
	}
}

// batchOutcome is one worker's answer for one batch. A failed batch
// carries no updates; its addresses stay unresolved for the next pass.
type batchOutcome struct {
	updates []ipaddrdomain.LocationUpdate
	skipped int
	failed  bool
}

// ResolveUnresolved runs one enrichment pass: snapshot the unresolved
// set, fan batches out to the resolver on a bounded worker pool, then
// apply every accepted result in one bulk update. Batch failures only
// cost that batch; the pass itself errors only on store failures.
func (s *Service) ResolveUnresolved(ctx context.Context) (domain.Result, error) {
	ips, err := s.repo.FindUnresolved(ctx, s.db)
	if err != nil {
		return domain.Result{}, fmt.Errorf("select unresolved ips: %w", err)
	}

	result := domain.Result{Selected: len(ips)}
	if len(ips) == 0 {
		return result, nil
	}

	batches := partition(ips, s.batchSize)
	result.Batches = len(batches)
	s.log.Info("dispatching ip batches",
		zap.Int("unresolved", len(ips)),
		zap.Int("batches", len(batches)),
		zap.Int("workers", s.workers),
	)

	outcomes := s.dispatch(ctx, batches)

	var updates []ipaddrdomain.LocationUpdate
	for _, o := range outcomes {
		result.Skipped += o.skipped
		if o.failed {
			result.FailedBatches++
			continue
		}
		updates = append(updates, o.updates...)
	}

	resolved, err := s.repo.BulkUpdateLocations(ctx, s.db, updates)
	if err != nil {
		return result, fmt.Errorf("apply location updates: %w", err)
	}
	result.Resolved = resolved
	return result, nil
}

// dispatch runs the batches across the worker pool and joins before
// returning. Workers share nothing but the jobs and outcome channels.
func (s *Service) dispatch(ctx context.Context, batches [][]string) []batchOutcome {
	jobs := make(chan []string)
	out := make(chan batchOutcome, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				out <- s.resolveBatch(ctx, batch)
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()
	close(out)

	outcomes := make([]batchOutcome, 0, len(batches))
	for o := range out {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func (s *Service) resolveBatch(ctx context.Context, batch []string) batchOutcome {
	answers, err := s.resolver.ResolveBatch(ctx, batch)
	if err != nil {
		s.log.Warn("batch lookup failed",
			zap.Int("size", len(batch)),
			zap.Error(err),
		)
		return batchOutcome{failed: true}
	}

	var o batchOutcome
	for ip, answer := range answers {
		if answer.Err != "" {
			s.log.Warn("skipping ip with unexpected response",
				zap.String("ip", ip),
				zap.String("response", answer.Err),
			)
			o.skipped++
			continue
		}
		if answer.Location.City == "" {
			o.skipped++
			continue
		}
		o.updates = append(o.updates, ipaddrdomain.LocationUpdate{
			IPAddress: ip,
			City:      answer.Location.City,
			State:     answer.Location.Region,
			ZipCode:   answer.Location.Postal,
		})
	}
	return o
}

func partition(ips []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	batches := make([][]string, 0, (len(ips)+size-1)/size)
	for start := 0; start < len(ips); start += size {
		end := start + size
		if end > len(ips) {
			end = len(ips)
		}
		batches = append(batches, ips[start:end])
	}
	return batches
}
