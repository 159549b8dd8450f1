package api

import (
	"net/http"

	"github.com/vytor/squadpick/internal/models"
)

func (s *Server) handleTeamSelection(w http.ResponseWriter, r *http.Request) {
	var reqs []models.Requirement
	if err := decodeJSON(w, r, &reqs); err != nil {
		handleError(w, r, err)
		return
	}

	players, err := s.TeamSelectionService.ProcessTeamSelection(r.Context(), reqs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, players)
}
