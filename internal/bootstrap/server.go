package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flightdash/api"
	"flightdash/config"
	"flightdash/internal/service/dashboard"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, dashboardSvc dashboard.DashboardUseCase) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(dashboardSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(dashboardSvc dashboard.DashboardUseCase) *gin.Engine {
	router := gin.Default()

	handler := api.NewDashboardHandler(dashboardSvc)
	handler.Register(router.Group("/api/v1"))

	router.GET("/healthz", func(c *gin.Context) {
		snap, err := dashboardSvc.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "dataset unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"snapshot_id": snap.ID,
			"source":      snap.SourceKey,
			"rows":        len(snap.Table),
			"loaded_at":   snap.LoadedAt,
		})
	})

	return router
}
