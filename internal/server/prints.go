package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
)

type printInfo struct {
	Filename       string `json:"filename"`
	ContractNumber string `json:"contract_number"`
	SizeBytes      int64  `json:"size_bytes"`
}

// handlePrintsUpload receives clause screenshots, one image per contract.
// The contract number is the filename stem; re-uploads replace the
// previous image.
func (s *Server) handlePrintsUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		s.writeError(w, fmt.Errorf("parse multipart form: %w", common.ErrInvalidInput))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, fmt.Errorf("nenhum arquivo enviado: %w", common.ErrInvalidInput))
		return
	}

	var accepted, rejected []string
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if stem == "" || !constants.HasAllowedExtension(name, constants.PrintExtensions) {
			rejected = append(rejected, name)
			continue
		}
		src, err := fh.Open()
		if err != nil {
			rejected = append(rejected, name)
			continue
		}
		_, err = s.prints.Save(stem, name, src)
		src.Close()
		if err != nil {
			s.logger.Warn("prints.upload.rejected", "file", name, "error", err)
			rejected = append(rejected, name)
			continue
		}
		accepted = append(accepted, name)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sucesso":          len(rejected) == 0,
		"total_enviados":   len(files),
		"total_aceitos":    len(accepted),
		"total_rejeitados": len(rejected),
		"aceitos":          emptyIfNil(accepted),
		"rejeitados":       emptyIfNil(rejected),
		"mensagem":         fmt.Sprintf("%d de %d arquivos aceitos", len(accepted), len(files)),
	})
}

func (s *Server) handlePrintsList(w http.ResponseWriter, _ *http.Request) {
	numbers, err := s.prints.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	infos := make([]printInfo, 0, len(numbers))
	for _, n := range numbers {
		path := s.prints.Find(n)
		if path == "" {
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		infos = append(infos, printInfo{
			Filename:       filepath.Base(path),
			ContractNumber: n,
			SizeBytes:      fi.Size(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(infos),
		"prints": infos,
	})
}

func (s *Server) handlePrintGet(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	path := s.prints.Find(number)
	if path == "" {
		s.writeError(w, fmt.Errorf("Print do contrato %s não encontrado: %w", number, common.ErrNotFound))
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handlePrintDelete(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if s.prints.Find(number) == "" {
		s.writeError(w, fmt.Errorf("Print do contrato %s não encontrado: %w", number, common.ErrNotFound))
		return
	}
	if err := s.prints.Delete(number); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Print do contrato %s removido com sucesso", number),
	})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
