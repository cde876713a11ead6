// Package server exposes the day log, presets and rollups as a small JSON API
// for companion devices.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/service"
)

type Options struct {
	Secret      []byte
	RateLimit   float64
	Burst       int
	StreakBatch int
	Registry    *prometheus.Registry
}

type Server struct {
	deps    service.Deps
	opts    Options
	log     *zap.Logger
	metrics *Metrics
	engine  *gin.Engine
}

func New(deps service.Deps, opts Options) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	s := &Server{deps: deps, opts: opts, log: log, metrics: NewMetrics(opts.Registry)}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(recovery(s.log))
	r.Use(requestLogger(s.log, s.metrics))

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(bearerAuth(s.opts.Secret))
	if s.opts.RateLimit > 0 {
		api.Use(newRateLimiter(s.opts.RateLimit, s.opts.Burst).handler(s.log))
	}
	{
		api.GET("/days/:day", s.getDay)
		api.POST("/foods", s.createFood)
		api.DELETE("/foods/:id", s.deleteFood)
		api.GET("/quick-adds", s.listQuickAdds)
		api.GET("/stats/week", s.week)
		api.GET("/stats/streak", s.streak)
		api.GET("/widget", s.widget)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("server_shutdown")
	return srv.Shutdown(shutdownCtx)
}
