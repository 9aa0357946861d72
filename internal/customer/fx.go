package customer

import (
	"github.com/smallbiznis/retailerp/internal/customer/repository"
	"github.com/smallbiznis/retailerp/internal/customer/service"
	"go.uber.org/fx"
)

// Module provides the member service. The repository is exported to the
// graph because loyalty updates member aggregates inside order transactions.
var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide, service.New),
)
