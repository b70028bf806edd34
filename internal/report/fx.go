package report

import (
	"github.com/smallbiznis/geotally/internal/report/service"
	"github.com/smallbiznis/geotally/internal/report/xlsx"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.New),
	fx.Provide(xlsx.NewWriter),
)
