package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gondimadv/arbitral/internal/batch"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/extract"
)

// processor builds a batch processor bound to the office configuration as
// it stands right now, so config updates apply to the next run.
func (s *Server) processor() *batch.Processor {
	return batch.NewProcessor(s.jobs, s.prints, s.officeConfig(), s.cfg.Storage.OutputsDir, s.logger,
		batch.WithWorkers(s.cfg.Batch.Workers),
		batch.WithZipOutputs(s.cfg.Batch.ZipOutputs),
		batch.WithFilePrefix(s.cfg.Batch.ContractPrefix),
	)
}

func (s *Server) handleContractsList(w http.ResponseWriter, r *http.Request) {
	path, _, err := s.spreadsheetUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer os.Remove(path)

	e, err := extract.Open(path, s.officeConfig(), s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}

	numbers := e.ContractNumbers()
	contracts := make([]*entity.Contract, 0, len(numbers))
	for _, n := range numbers {
		if c, ok := e.Contract(n); ok {
			contracts = append(contracts, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sucesso":   true,
		"total":     len(contracts),
		"contratos": contracts,
		"mensagem":  fmt.Sprintf("%d contratos encontrados na planilha", len(contracts)),
	})
}

func (s *Server) handlePendencias(w http.ResponseWriter, r *http.Request) {
	path, filename, err := s.spreadsheetUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer os.Remove(path)

	e, err := extract.Open(path, s.officeConfig(), s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pendings := s.checker.CheckAll(e, filename)
	withIssues := map[string]bool{}
	for _, p := range pendings {
		withIssues[p.ContractNumber] = true
	}
	total := len(e.ContractNumbers())
	pendentes := len(withIssues)

	msg := "Todos os contratos estão completos"
	if pendentes > 0 {
		msg = fmt.Sprintf("%d contratos com pendências encontrados", pendentes)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sucesso":             true,
		"total_contratos":     total,
		"contratos_completos": total - pendentes,
		"contratos_pendentes": pendentes,
		"pendencias":          pendings,
		"mensagem":            msg,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	path, _, err := s.spreadsheetUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer os.Remove(path)

	templateID := r.FormValue("template_id")
	tplPath, err := s.templates.Path(templateID)
	if err != nil {
		s.writeError(w, fmt.Errorf("Template %s não encontrado: %w", templateID, common.ErrNotFound))
		return
	}

	var numbers []string
	if raw := r.FormValue("contratos"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				numbers = append(numbers, part)
			}
		}
	}

	e, err := extract.Open(path, s.officeConfig(), s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}

	job, err := s.processor().Process(r.Context(), e, tplPath, numbers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = fmt.Errorf("Job não encontrado: %w", common.ErrNotFound)
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := fmt.Sprintf("contratos_%s.zip", id)
	path := filepath.Join(s.cfg.Storage.OutputsDir, id, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, fmt.Errorf("Arquivo não encontrado: %w", common.ErrNotFound))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *Server) handleJobCleanup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.processor().Cleanup(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = fmt.Errorf("Job não encontrado: %w", common.ErrNotFound)
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job limpo com sucesso"})
}
