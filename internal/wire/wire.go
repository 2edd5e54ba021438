package wire

import (
	"net/http"

	"albergue-booking/internal/adaptor"
	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/usecase"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/middleware"
	"albergue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired application
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers, and the router
func Wiring(
	repo *repository.Repository,
	txm database.TxManager,
	clk clock.Clock,
	m *metrics.Metrics,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, txm, clk, m, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, m, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	m *metrics.Metrics,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	if config.Metrics.Enabled {
		r.Use(middleware.Metrics(m))
	}

	wireReservation(r, handler.Reservation)
	wirePayment(r, handler.Payment)
	wireAvailability(r, handler.Availability)

	if config.Metrics.Enabled {
		r.Handle(config.Metrics.Path, promhttp.Handler())
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
