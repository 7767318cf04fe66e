package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
)

func (s *Server) handleTemplateCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		s.writeError(w, fmt.Errorf("parse multipart form: %w", common.ErrInvalidInput))
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, fmt.Errorf("arquivo do template ausente: %w", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	if !constants.HasAllowedExtension(fh.Filename, constants.TemplateExtensions) {
		s.writeError(w, fmt.Errorf("apenas arquivos .docx são permitidos: %w", common.ErrInvalidInput))
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = fh.Filename
	}
	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, common.WrapError(err, "read upload"))
		return
	}

	tpl, err := s.templates.Create(name, r.FormValue("description"), fh.Filename, content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleTemplateList(w http.ResponseWriter, _ *http.Request) {
	list, err := s.templates.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(list),
		"templates": list,
	})
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.templates.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Template %s removido com sucesso", id),
	})
}
