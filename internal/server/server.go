// Package server exposes the REST API: template and print management,
// contract listing, pendência checks, batch processing and job downloads.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/office"
	"github.com/gondimadv/arbitral/internal/pending"
	"github.com/gondimadv/arbitral/internal/prints"
	"github.com/gondimadv/arbitral/internal/repository"
	"github.com/gondimadv/arbitral/internal/template"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

type Server struct {
	router    *chi.Mux
	cfg       *common.Config
	templates *template.Store
	prints    *prints.Store
	jobs      *repository.JobRepository
	checker   *pending.Checker
	logger    *slog.Logger

	officeMu sync.RWMutex
	office   office.Config
}

func NewServer(cfg *common.Config, templates *template.Store, printStore *prints.Store, jobs *repository.JobRepository, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	officeCfg, err := office.Load(cfg.Storage.OfficeConfig)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		templates: templates,
		prints:    printStore,
		jobs:      jobs,
		checker:   pending.NewChecker(printStore, logger),
		logger:    logger,
		office:    officeCfg,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Post("/", s.handleTemplateCreate)
			r.Get("/", s.handleTemplateList)
			r.Get("/{id}", s.handleTemplateGet)
			r.Delete("/{id}", s.handleTemplateDelete)
		})
		r.Route("/prints", func(r chi.Router) {
			r.Post("/upload", s.handlePrintsUpload)
			r.Get("/", s.handlePrintsList)
			r.Get("/{number}", s.handlePrintGet)
			r.Delete("/{number}", s.handlePrintDelete)
		})
		r.Route("/contracts", func(r chi.Router) {
			r.Post("/list", s.handleContractsList)
			r.Post("/pendencias", s.handlePendencias)
			r.Post("/process", s.handleProcess)
			r.Get("/job/{id}", s.handleJobStatus)
			r.Get("/download/{id}", s.handleDownload)
			r.Delete("/job/{id}", s.handleJobCleanup)
		})
		r.Get("/config", s.handleConfigGet)
		r.Put("/config", s.handleConfigUpdate)
	})
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": Version})
}

func (s *Server) officeConfig() office.Config {
	s.officeMu.RLock()
	defer s.officeMu.RUnlock()
	return s.office
}

func (s *Server) setOfficeConfig(cfg office.Config) {
	s.officeMu.Lock()
	s.office = cfg
	s.officeMu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrBadSource):
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

// saveUpload copies a multipart part into the temp dir under a
// collision-proof name. Callers must remove the file when done.
func (s *Server) saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", common.WrapError(err, "open upload")
	}
	defer src.Close()

	if err := os.MkdirAll(s.cfg.Storage.TempDir, 0o755); err != nil {
		return "", common.WrapError(err, "create temp directory")
	}
	path := filepath.Join(s.cfg.Storage.TempDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(fh.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", common.WrapError(err, "create temp file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", common.WrapError(err, "write temp file")
	}
	return path, nil
}

// spreadsheetUpload validates and stages the "file" part of a multipart
// request.
func (s *Server) spreadsheetUpload(r *http.Request) (string, string, error) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return "", "", fmt.Errorf("parse multipart form: %w", common.ErrInvalidInput)
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("arquivo da planilha ausente: %w", common.ErrInvalidInput)
	}
	if !constants.HasAllowedExtension(fh.Filename, constants.SpreadsheetExtensions) {
		return "", "", fmt.Errorf("apenas arquivos Excel (.xlsx, .xls) são permitidos: %w", common.ErrInvalidInput)
	}
	path, err := s.saveUpload(fh)
	if err != nil {
		return "", "", err
	}
	return path, fh.Filename, nil
}
