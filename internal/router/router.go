package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "maternal-booklet/internal/adapters/storage/memory"
	pg "maternal-booklet/internal/adapters/storage/postgres"
	"maternal-booklet/internal/domain/access"
	"maternal-booklet/internal/domain/booklets"
	"maternal-booklet/internal/domain/patientids"
	"maternal-booklet/internal/domain/records"
	"maternal-booklet/internal/middleware"
	"maternal-booklet/internal/platform/logger"
	"maternal-booklet/internal/ports/auth"
	"maternal-booklet/internal/ports/notify"

	_ "maternal-booklet/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales
	TokenTTL time.Duration
	Notifier notify.AccessNotifier
	Logger   logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		bookletRepo booklets.Repository
		tokenRepo   access.TokenRepository
		grantRepo   access.GrantRepository
		recordRepo  records.Repository
		mappingRepo patientids.Repository
	)

	if opts.DB != nil {
		bookletRepo = pg.NewBookletsRepo(opts.DB)
		tokenRepo = pg.NewTokensRepo(opts.DB)
		grantRepo = pg.NewGrantsRepo(opts.DB)
		recordRepo = pg.NewRecordsRepo(opts.DB)
		mappingRepo = pg.NewPatientIDsRepo(opts.DB)
	} else {
		bookletRepo = mem.NewBookletsRepo()
		tokenRepo = mem.NewTokensRepo()
		grantRepo = mem.NewGrantsRepo()
		recordRepo = mem.NewRecordsRepo()
		mappingRepo = mem.NewPatientIDsRepo()
	}

	// Services por módulo
	bookletsSvc := booklets.NewService(bookletRepo)
	accessSvc := access.NewService(tokenRepo, grantRepo, bookletsSvc, access.ServiceOptions{
		TokenTTL: opts.TokenTTL,
		Notifier: opts.Notifier,
		Logger:   opts.Logger,
	})
	recordsSvc := records.NewService(recordRepo)
	mappingsSvc := patientids.NewService(mappingRepo, accessSvc)

	// Rutas por módulo. Todos los accesos a datos de libreta pasan por el
	// guard de accessSvc: no hay surface que consulte repos directo.
	booklets.RegisterRoutes(r, bookletsSvc, accessSvc)
	access.RegisterRoutes(r, accessSvc)
	records.RegisterRoutes(r, recordsSvc, accessSvc)
	patientids.RegisterRoutes(r, mappingsSvc)

	return r
}
