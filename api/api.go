// Package api exposes single-pair comparison over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Taciones/parquet-comparison-job/pkg/compare"
	"github.com/Taciones/parquet-comparison-job/pkg/table"
	"github.com/Taciones/parquet-comparison-job/version"
)

// ServerOptions configure the HTTP server.
type ServerOptions struct {
	Port    string
	Prefork bool
}

// Server holds the Fiber app instance
type Server struct {
	app  *fiber.App
	port string
}

// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	LeftPath      string   `json:"left_path"`
	RightPath     string   `json:"right_path"`
	KeyColumns    []string `json:"key_columns"`
	IgnoreColumns []string `json:"ignore_columns"`
	SortedColumns []string `json:"sorted_columns"`
}

// NewServer initializes a new Fiber instance
func NewServer(opts ServerOptions) *Server {
	app := fiber.New(fiber.Config{
		IdleTimeout:  10 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Prefork:      opts.Prefork,
	})

	// Middleware
	app.Use(recover.New()) // Auto-recovers from panics
	app.Use(logger.New())  // Logs all requests

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "pqcompare API",
			"version": version.Version,
			"build":   version.BuildDate,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Post("/compare", handleCompare)

	port := opts.Port
	if port == "" {
		port = "3000"
	}

	return &Server{app: app, port: port}
}

// handleCompare runs one comparison and returns the structured report.
func handleCompare(c *fiber.Ctx) error {
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.LeftPath == "" || req.RightPath == "" {
		return fiber.NewError(fiber.StatusBadRequest, "left_path and right_path are required")
	}

	opts := compare.Options{
		KeyColumns:    req.KeyColumns,
		IgnoreColumns: req.IgnoreColumns,
	}
	if len(req.SortedColumns) > 0 {
		opts.Normalizers = compare.SortArrays(req.SortedColumns...)
	}

	result, err := compare.Compare(context.Background(), req.LeftPath, req.RightPath, opts)
	if err != nil {
		if errors.Is(err, table.ErrUnsupportedFormat) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// GetApp exposes the Fiber app, mainly for tests.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start runs the Fiber server.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
