package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/payhub-br/payhub-backend/api/controllers"
	"github.com/payhub-br/payhub-backend/api/middleware"
	"github.com/payhub-br/payhub-backend/internal/fees"
	"github.com/payhub-br/payhub-backend/internal/ledger"
	"github.com/payhub-br/payhub-backend/internal/lending"
	"github.com/payhub-br/payhub-backend/internal/payments"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/config"
	"github.com/payhub-br/payhub-backend/pkg/logger"
	pkgredis "github.com/payhub-br/payhub-backend/pkg/redis"
)

// RouterParams carries everything the route table needs. Redis and the
// metrics registry are optional; their routes and middleware drop out when
// they are nil.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Registry    *prometheus.Registry
	Redis       pkgredis.IdempotencyStore
	RedisPinger pkgredis.Pinger
	Ledger      ledger.Client
	Settlement  *settlement.Service
	Fees        *fees.Service
	Lending     *lending.Service
	Payments    *payments.Service
}

func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(params.Logger),
		middleware.RequestID(params.Logger),
		middleware.Logging(params.Logger),
		middleware.CORS(),
	)
	if params.Redis != nil {
		r.Use(middleware.Idempotency(params.Redis, params.Logger))
	}

	r.Get("/health", controllers.Health(params.Config))
	r.Get("/health/ready", controllers.HealthReady(params.Config, params.Logger, params.Ledger, params.RedisPinger))
	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/payment", controllers.CreatePayment(params.Payments, params.Logger))
	r.Post("/xrpl/setup", controllers.SetupTestnet(params.Settlement, params.Logger))

	r.Route("/escrow", func(r chi.Router) {
		r.Post("/create", controllers.CreateEscrow(params.Settlement, params.Logger))
		r.Post("/finish", controllers.FinishEscrow(params.Settlement, params.Logger))
		r.Route("/rlusd", func(r chi.Router) {
			r.Post("/create", controllers.CreateTokenEscrow(params.Settlement, params.Logger))
			r.Post("/finish", controllers.FinishEscrow(params.Settlement, params.Logger))
		})
	})

	r.Post("/simulate/hybrid", controllers.SimulateHybrid(params.Settlement, params.Logger))

	r.Route("/defi", func(r chi.Router) {
		r.Post("/tokenize", controllers.TokenizeReceivable(params.Lending, params.Logger))
		r.Post("/borrow", controllers.Borrow(params.Lending, params.Logger))
	})

	r.Post("/fees/quote", controllers.QuoteFees(params.Fees, params.Logger))

	return r
}
