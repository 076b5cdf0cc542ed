package auctionservice

import (
	"log/slog"

	httpadapter "turnstile/contexts/marketplace-core/auction-service/adapters/http"
	"turnstile/contexts/marketplace-core/auction-service/adapters/memory"
	"turnstile/contexts/marketplace-core/auction-service/application"
	"turnstile/contexts/marketplace-core/auction-service/application/workers"
	"turnstile/contexts/marketplace-core/auction-service/ports"
	"turnstile/internal/shared/ledger"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Closer  workers.AuctionCloser
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	UnitOfWork  ports.UnitOfWork
	Repository  ports.Repository
	Outbox      ports.OutboxRepository
	Tickets     ports.TicketDirectory
	Royalties   ports.RoyaltySource
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		UoW:       deps.UnitOfWork,
		Repo:      deps.Repository,
		Tickets:   deps.Tickets,
		Royalties: deps.Royalties,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Closer: workers.AuctionCloser{
			Service: service,
			Repo:    deps.Repository,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the auction service onto the shared in-memory
// ledger. The royalty source crosses contexts, so the caller bridges it
// from the royalty module.
func NewInMemoryModule(
	l *ledger.Ledger,
	royalties ports.RoyaltySource,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(l)
	module := NewModule(Dependencies{
		UnitOfWork:  store,
		Repository:  store,
		Outbox:      store,
		Tickets:     store,
		Royalties:   royalties,
		Publisher:   publisher,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
