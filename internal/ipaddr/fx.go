package ipaddr

import (
	"github.com/smallbiznis/geotally/internal/ipaddr/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("ipaddr",
	fx.Provide(repository.Provide),
)
