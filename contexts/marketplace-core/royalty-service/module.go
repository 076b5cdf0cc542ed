package royaltyservice

import (
	"log/slog"

	httpadapter "turnstile/contexts/marketplace-core/royalty-service/adapters/http"
	"turnstile/contexts/marketplace-core/royalty-service/adapters/memory"
	"turnstile/contexts/marketplace-core/royalty-service/application"
	"turnstile/contexts/marketplace-core/royalty-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
