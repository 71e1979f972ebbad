// Package server exposes the explorer as an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/naka-gawa/repo-explorer/internal/bookmark"
	"github.com/naka-gawa/repo-explorer/internal/domain"
	"github.com/naka-gawa/repo-explorer/internal/gateway"
	"github.com/naka-gawa/repo-explorer/internal/query"
	"github.com/naka-gawa/repo-explorer/internal/usecase"
)

// Server provides HTTP endpoints for the explorer.
type Server struct {
	echo      *echo.Echo
	explorer  *usecase.Explorer
	bookmarks *bookmark.Service
	logger    *zap.Logger
	addr      string
}

// NewServer creates a new HTTP server. gatherer serves /metrics.
func NewServer(explorer *usecase.Explorer, bookmarks *bookmark.Service, gatherer prometheus.Gatherer, logger *zap.Logger, addr string) (*Server, error) {
	if explorer == nil {
		return nil, fmt.Errorf("explorer cannot be nil")
	}
	if bookmarks == nil {
		return nil, fmt.Errorf("bookmarks cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the response so the logged status is the real one.
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:      e,
		explorer:  explorer,
		bookmarks: bookmarks,
		logger:    logger,
		addr:      addr,
	}
	s.registerRoutes(gatherer)
	return s, nil
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/repositories", s.handleRepositories)
	v1.GET("/trending", s.handleTrending)
	v1.GET("/topics", s.handleTopics)
	v1.GET("/dashboard", s.handleDashboard)
	v1.GET("/repos/:owner/:name", s.handleRepository)
	v1.GET("/bookmarks", s.handleListBookmarks)
	v1.POST("/bookmarks/:id/toggle", s.handleToggleBookmark)
}

// ServeHTTP lets the server be mounted or exercised directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server. It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// upstreamError maps a use case error to an HTTP error.
func (s *Server) upstreamError(err error) error {
	if errors.Is(err, query.ErrInvalidParams) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gateway.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, gateway.ErrNotFound.Error())
	}
	s.logger.Error("upstream request failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusBadGateway, usecase.FetchErrorMessage)
}

// searchParams reads the shared search filters from the query string.
func searchParams(c echo.Context) (domain.SearchParams, error) {
	p := domain.SearchParams{
		Query:    c.QueryParam("q"),
		Language: c.QueryParam("language"),
		Topics:   c.QueryParams()["topic"],
		Sort:     domain.SortKey(c.QueryParam("sort")),
		Order:    domain.Order(c.QueryParam("order")),
	}
	var err error
	if p.PerPage, err = intParam(c, "per_page"); err != nil {
		return p, err
	}
	if p.Page, err = intParam(c, "page"); err != nil {
		return p, err
	}
	return p, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}
