package main

import (
	"context"

	"github.com/smallbiznis/geotally/internal/config"
	"github.com/smallbiznis/geotally/internal/enrich"
	"github.com/smallbiznis/geotally/internal/ingest"
	"github.com/smallbiznis/geotally/internal/ipaddr"
	"github.com/smallbiznis/geotally/internal/order"
	"github.com/smallbiznis/geotally/internal/pipeline"
	"github.com/smallbiznis/geotally/internal/report"
	"github.com/smallbiznis/geotally/pkg/db"
	"github.com/smallbiznis/geotally/pkg/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		db.Module,

		order.Module,
		ipaddr.Module,
		ingest.Module,
		enrich.Module,
		report.Module,
		pipeline.Module,

		fx.Invoke(RunPipeline),
	)
	app.Run()
}

// RunPipeline starts the one-shot batch run once the graph is up and
// shuts the app down when it finishes.
func RunPipeline(lc fx.Lifecycle, shutdowner fx.Shutdowner, p *pipeline.Pipeline, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := p.Run(context.Background()); err != nil {
					logger.Error("pipeline failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
