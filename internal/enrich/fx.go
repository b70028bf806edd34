package enrich

import (
	"github.com/smallbiznis/geotally/internal/enrich/ipinfo"
	"github.com/smallbiznis/geotally/internal/enrich/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enrich.service",
	fx.Provide(ipinfo.Provide),
	fx.Provide(service.New),
)
