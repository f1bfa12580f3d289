package components

import (
	"tripcore/internal/infra/db"
	"tripcore/internal/infra/readstore"
	"tripcore/internal/infra/repository"
	"tripcore/internal/infra/uow"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		// Idempotency claims happen outside the reservation transaction, so the
		// repository here runs on the pool directly.
		repository.NewIdempotencyRepository,
		readstore.NewBookingReadStore,
		readstore.NewTripReadStore,
		readstore.NewLedgerReadStore,
		readstore.NewAccountReadStore,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
