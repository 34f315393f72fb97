// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package server provides the HTTP API for ticket routing queries.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/routing"
)

// QueryService is the slice of the routing service the HTTP layer needs.
type QueryService interface {
	Route(ctx context.Context, query string, topK int) (*core.RoutingDecision, error)
	Suggest(ctx context.Context, query string, decision *core.RoutingDecision) string
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// TopK is the default result count when the request omits top_k.
	TopK int
}

// Server exposes the query API over HTTP.
type Server struct {
	echo    *echo.Echo
	service QueryService
	logger  *slog.Logger
	config  *Config
}

// NewServer creates a new HTTP server.
func NewServer(service QueryService, logger *slog.Logger, cfg *Config) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("query service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8000}
	}
	if cfg.TopK < 1 {
		cfg.TopK = routing.DefaultTopK
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

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))

			return err
		}
	})

	s := &Server{
		echo:    e,
		service: service,
		logger:  logger,
		config:  cfg,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	search := s.echo.Group("/pdf_search")
	search.GET("/query", s.handleQuery)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// QueryResponse is the response body for GET /pdf_search/query.
type QueryResponse struct {
	AutoAssign         bool                `json:"auto_assign"`
	Teams              []core.TeamScore    `json:"teams"`
	Results            []core.SearchResult `json:"results"`
	AISuggestedMessage string              `json:"ai_suggested_message,omitempty"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleQuery runs a routed search for the query parameter.
func (s *Server) handleQuery(c echo.Context) error {
	query := CleanQuery(c.QueryParam("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	topK := s.config.TopK
	if raw := c.QueryParam("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "top_k must be a positive integer")
		}
		topK = parsed
	}

	decision, err := s.service.Route(c.Request().Context(), query, topK)
	if err != nil {
		s.logger.Error("query failed", "query", query, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, QueryResponse{
		AutoAssign:         decision.AutoAssign,
		Teams:              decision.Teams,
		Results:            decision.Results,
		AISuggestedMessage: s.service.Suggest(c.Request().Context(), query, decision),
	})
}

// CleanQuery URL-decodes a query at most twice, stopping as soon as a
// decode pass is a fixed point, then trims surrounding whitespace.
func CleanQuery(text string) string {
	prev := text
	for i := 0; i < 2; i++ {
		decoded, err := url.QueryUnescape(prev)
		if err != nil || decoded == prev {
			break
		}
		prev = decoded
	}
	return strings.TrimSpace(prev)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
