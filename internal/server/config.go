package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/office"
)

func (s *Server) handleConfigGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.officeConfig())
}

// handleConfigUpdate persists the given keys and refreshes the in-memory
// copy, so subsequent extractions and generations use the new values.
func (s *Server) handleConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		s.writeError(w, fmt.Errorf("corpo da requisição inválido: %w", common.ErrInvalidInput))
		return
	}
	cfg, err := office.Update(s.cfg.Storage.OfficeConfig, updates)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setOfficeConfig(cfg)
	s.logger.Info("config.updated", "keys", len(updates))
	writeJSON(w, http.StatusOK, cfg)
}
