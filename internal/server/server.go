// Package server assembles the HTTP engine, routes and WebSocket handler and
// owns the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/minerdev/codenames-api/config"
	"github.com/minerdev/codenames-api/internal/container"
	"github.com/minerdev/codenames-api/internal/interface/middleware"
	"github.com/minerdev/codenames-api/internal/interface/ws"
	"github.com/minerdev/codenames-api/internal/openapi"
	"github.com/minerdev/codenames-api/internal/router"
)

// ListenerBindError is returned by Start when the port cannot be bound.
type ListenerBindError struct {
	Addr string
	Err  error
}

func (e *ListenerBindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *ListenerBindError) Unwrap() error { return e.Err }

type Server struct {
	cfg      *config.Config
	logger   *logrus.Logger
	engine   *gin.Engine
	registry *router.Registry
	sockets  *ws.Handler

	httpSrv  *http.Server
	listener net.Listener
	done     chan error
}

// New builds the engine and mounts every module. It does not listen.
func New(deps *container.Container) (*Server, error) {
	cfg, logger := deps.Config, deps.Logger
	if err := checkPaths(cfg); err != nil {
		return nil, err
	}
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		engine.Use(middleware.AccessLog(logger))
	}
	engine.Use(cors.New(corsConfig(cfg)))

	sockets := ws.NewHandler(logger, cfg.WSReadLimit, cfg.CORSOrigins())
	engine.Use(sockets.Middleware())

	reg := router.NewRegistry(engine, openapi.Info{Title: cfg.APITitle, Version: cfg.APIVersion}, logger)
	if cfg.RateLimitEnabled {
		reg.Use(middleware.RateLimit(deps.Redis, cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIP()))
	}
	InitModules(reg, deps, sockets)
	if err := reg.RegisterAll(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		engine:   engine,
		registry: reg,
		sockets:  sockets,
		done:     make(chan error, 1),
	}
	s.httpSrv = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpSrv.RegisterOnShutdown(sockets.CloseAll)
	return s, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}

// checkPaths rejects endpoint paths gin would panic on.
func checkPaths(cfg *config.Config) error {
	seen := map[string]string{"/user": "user route"}
	for _, p := range []struct{ name, path string }{
		{"DOC_PATH", cfg.DocPath},
		{"UI_PATH", cfg.UIPath},
		{"WS_PATH", cfg.WSPath},
	} {
		if !strings.HasPrefix(p.path, "/") {
			return &router.ConfigurationError{Method: http.MethodGet, Path: p.path, Reason: p.name + " must start with /"}
		}
		if other, dup := seen[p.path]; dup {
			return &router.ConfigurationError{Method: http.MethodGet, Path: p.path, Reason: p.name + " collides with " + other}
		}
		seen[p.path] = p.name
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Registry() *router.Registry { return s.registry }

// Start binds the configured port and serves in the background.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &ListenerBindError{Addr: addr, Err: err}
	}
	s.listener = ln
	baseURL := s.cfg.BaseURL()
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		baseURL = fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	s.logger.Infof("🚀 Gin running on %s", baseURL)

	go func() {
		err := s.httpSrv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
		close(s.done)
	}()
	return nil
}

// Addr is the bound address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Done yields the serve loop's terminal error (nil after Shutdown).
func (s *Server) Done() <-chan error { return s.done }

// Shutdown stops accepting connections, asks open sockets to close and
// waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpSrv.Shutdown(ctx)
}
