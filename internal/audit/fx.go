package audit

import (
	"github.com/smallbiznis/retailerp/internal/audit/repository"
	"github.com/smallbiznis/retailerp/internal/audit/service"
	"go.uber.org/fx"
)

// Module exposes the audit service; its repository stays private.
var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide, fx.Private),
	fx.Provide(service.New),
)
