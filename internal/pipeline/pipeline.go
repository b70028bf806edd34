// Package pipeline runs the batch stages in order: load orders, merge
// the ip mapping, enrich unresolved addresses, propagate locations and
// emit the quarterly report.
package pipeline

import (
	"context"
	"errors"

	"github.com/smallbiznis/geotally/internal/config"
	enrichdomain "github.com/smallbiznis/geotally/internal/enrich/domain"
	ingestdomain "github.com/smallbiznis/geotally/internal/ingest/domain"
	reportdomain "github.com/smallbiznis/geotally/internal/report/domain"
	"github.com/smallbiznis/geotally/internal/report/xlsx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Ingest ingestdomain.Service
	Enrich enrichdomain.Service
	Report reportdomain.Service
	Writer *xlsx.Writer
}

type Pipeline struct {
	log    *zap.Logger
	cfg    config.Config
	ingest ingestdomain.Service
	enrich enrichdomain.Service
	report reportdomain.Service
	writer *xlsx.Writer
}

func New(p Params) *Pipeline {
	return &Pipeline{
		log:    p.Log.Named("pipeline"),
		cfg:    p.Config,
		ingest: p.Ingest,
		enrich: p.Enrich,
		report: p.Report,
		writer: p.Writer,
	}
}

// Run executes one full pass. Validation failures inside a stage only
// drop rows; a returned error means the run mutated nothing further
// and should exit non-zero.
func (p *Pipeline) Run(ctx context.Context) error {
	loaded, err := p.ingest.LoadOrders(ctx, p.cfg.OrdersCSV)
	if err != nil {
		return err
	}
	p.log.Info("orders loaded",
		zap.Int("read", loaded.Read),
		zap.Int("skipped", loaded.Skipped),
		zap.Int64("inserted", loaded.Inserted),
		zap.Int64("new_ips", loaded.NewIPs),
	)

	merged, err := p.ingest.MergeIPMapping(ctx, p.cfg.IPMappingCSV)
	if err != nil {
		return err
	}
	p.log.Info("ip mapping merged",
		zap.Int("read", merged.Read),
		zap.Int("valid", merged.Valid),
		zap.Int64("orders_assigned", merged.Assigned),
		zap.Int64("new_ips", merged.NewIPs),
	)

	enriched, err := p.enrich.ResolveUnresolved(ctx)
	if err != nil {
		return err
	}
	p.log.Info("ip enrichment finished",
		zap.Int("selected", enriched.Selected),
		zap.Int("batches", enriched.Batches),
		zap.Int("failed_batches", enriched.FailedBatches),
		zap.Int("skipped", enriched.Skipped),
		zap.Int64("resolved", enriched.Resolved),
	)

	propagated, err := p.ingest.PropagateLocations(ctx)
	if err != nil {
		return err
	}
	p.log.Info("locations propagated", zap.Int64("orders_updated", propagated))

	if p.cfg.ExportCSV != "" {
		exported, err := p.ingest.ExportOrders(ctx, p.cfg.ExportCSV)
		if err != nil {
			return err
		}
		p.log.Info("orders exported",
			zap.String("path", p.cfg.ExportCSV),
			zap.Int("rows", exported),
		)
	}

	rows, err := p.report.Generate(ctx, p.cfg.ReportState, p.cfg.ReportYear)
	if errors.Is(err, reportdomain.ErrNoData) {
		p.log.Warn("no data for report, skipping file",
			zap.String("state", p.cfg.ReportState),
			zap.Int("year", p.cfg.ReportYear),
		)
		return nil
	}
	if err != nil {
		return err
	}

	path := xlsx.Filename(p.cfg.ReportDir, p.cfg.ReportState, p.cfg.ReportYear)
	if err := p.writer.Write(path, rows); err != nil {
		return err
	}
	p.log.Info("report written",
		zap.String("path", path),
		zap.Int("cities", len(rows)),
	)
	return nil
}
