package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/subscale/rest-gateway/internal/constants"
)

// Server is the gateway's HTTP server: a chi router wired onto the
// Service's core operations, adapted from the teacher's api.Server
// (config validation, setupMiddleware/setupRoutes, Start/Stop
// lifecycle) but scoped to the representative endpoint set spec.md
// §2.5 calls for rather than the teacher's GraphQL/JSON-RPC/WebSocket
// surface.
type Server struct {
	service *Service
	logger  *zap.Logger
	router  *chi.Mux
	server  *stdhttp.Server
}

// NewServer builds the router and the underlying http.Server, ready
// for Start.
func NewServer(addr string, service *Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &stdhttp.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(recoveryMiddleware(s.logger))
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(constants.DefaultRequestDeadline))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.service.handleHealth)

	s.router.Route("/chains/{chainType}", func(r chi.Router) {
		r.Get("/blocks/{blockId}", s.service.handleGetBlock)
		r.Get("/block-range", s.service.handleGetBlockRange)
		r.Get("/blocks/{blockId}/extrinsics/{index}", s.service.handleGetExtrinsic)
		r.Get("/blocks/{blockId}/asset-hub-blocks", s.service.handleGetAssetHubBlocks)
	})
}

// Start begins serving; it blocks until Stop triggers a graceful
// shutdown or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("starting gateway HTTP server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
		return fmt.Errorf("gateway server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down within ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping gateway HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("gateway server shutdown failed: %w", err)
	}
	return nil
}

// Router exposes the underlying chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
