package components

import (
	"carhive/internal/infra/db"
	"carhive/internal/infra/readstore"
	"carhive/internal/infra/storage"
	"carhive/internal/infra/uow"
	"carhive/internal/usecase/commands"
	"carhive/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewCarReadStore,
			fx.As(new(queries.CarViewRepo)),
		),
		fx.Annotate(
			readstore.NewReviewReadStore,
			fx.As(new(queries.ReviewViewRepo)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserViewRepo)),
			fx.As(new(commands.UserCredentialReader)),
		),
		storage.NewLocalImageStore,
		func(s *storage.LocalImageStore) commands.ImageStore { return s },
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
