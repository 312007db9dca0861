// Package api serves report templates over HTTP with fiber.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agri-report-workers/internal/catalog"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/pkg/registry"

	"github.com/gofiber/fiber/v2"
)

// HeaderReportID carries the generated report id on every report response.
const HeaderReportID = "X-Report-Id"

// ReportRequest is the body of POST /v1/reports/:template.
type ReportRequest struct {
	Args []string `json:"args"`
}

// TemplateInfo is one entry of GET /v1/templates.
type TemplateInfo struct {
	Name      string   `json:"name"`
	Arity     int      `json:"arity"`
	Arguments []string `json:"arguments,omitempty"`
	Timeout   string   `json:"timeout,omitempty"`
}

type Server struct {
	app      *fiber.App
	catalog  *catalog.Catalog
	runner   *pipeline.Runner
	registry *registry.TemplateRegistry
	timeout  time.Duration
	logger   logger.Logger
}

// NewServer registers the routes. reg may be nil, in which case template
// listings carry no argument names.
func NewServer(cfg config.APIConfig, cat *catalog.Catalog, runner *pipeline.Runner, reg *registry.TemplateRegistry, log logger.Logger) *Server {
	limit := cfg.BodyLimitKB * 1024
	if limit <= 0 {
		limit = 256 * 1024
	}
	s := &Server{
		catalog:  cat,
		runner:   runner,
		registry: reg,
		timeout:  30 * time.Second,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             limit,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.app.Group("/v1")
	v1.Get("/health", s.health)
	v1.Get("/templates", s.templates)
	v1.Post("/reports/:template", s.report)
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("report API listening", map[string]interface{}{"address": addr})
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"templates": len(s.catalog.Names()),
	})
}

func (s *Server) templates(c *fiber.Ctx) error {
	out := make([]TemplateInfo, 0, len(s.catalog.Names()))
	for _, e := range s.catalog.Entries() {
		info := TemplateInfo{Name: e.Name, Arity: e.Template.Arity()}
		if s.registry != nil {
			if def, ok := s.registry.Find(e.Name); ok {
				info.Arguments = def.ArgumentNames()
				info.Timeout = def.Timeout
			}
		}
		out = append(out, info)
	}
	return c.JSON(fiber.Map{"templates": out})
}

func (s *Server) report(c *fiber.Ctx) error {
	name := c.Params("template")
	tpl, err := s.catalog.Get(name)
	if err != nil {
		return err
	}

	var req ReportRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Args == nil {
		return fiber.NewError(fiber.StatusBadRequest, "args is required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.timeout)
	defer cancel()

	result := s.runner.Run(ctx, tpl, req.Args)
	s.logger.Info("report served", map[string]interface{}{
		"template": name,
		"reportId": result.ReportID,
		"error":    result.Failed,
	})

	c.Set(HeaderReportID, result.ReportID)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(result.Encoded)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	if stdErr, ok := errors.AsStandardError(err); ok {
		status := fiber.StatusInternalServerError
		if stdErr.Code == errors.ErrCodeTemplateNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   stdErr.Code,
			"message": stdErr.Message,
			"details": stdErr.Details,
		})
	}

	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
