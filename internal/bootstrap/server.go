package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/service/flights"
	"github.com/Domenick1991/travelbooking/internal/service/hotels"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Hotels     hotels.HotelUseCase
	Flights    flights.FlightUseCase
	Reconciler api.WebhookReconciler
	Guard      api.EventGuard
	Verifier   api.TokenVerifier
	Logger     *logrus.Logger
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, deps),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is working")
	})

	// the webhook route sits outside the authenticated groups: it is
	// signature-checked, not session-checked
	api.NewWebhookHandler(deps.Reconciler, deps.Guard, deps.Logger).Register(router)

	auth := api.Auth(deps.Verifier)
	api.NewBookingHandler(deps.Hotels).Register(router.Group("/api/bookings"), auth)
	api.NewFlightHandler(deps.Flights).Register(router.Group("/api/flights"), auth)

	if cfg.HTTP.SwaggerFile != "" {
		router.StaticFile("/swagger/openapi.json", cfg.HTTP.SwaggerFile)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
