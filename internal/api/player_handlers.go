package api

import (
	"net/http"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.PlayerService.ListPlayers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, players)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	player, err := s.PlayerService.GetPlayer(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, player)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(w, r, &payload); err != nil {
		handleError(w, r, err)
		return
	}

	player, err := s.PlayerService.CreatePlayer(r.Context(), payload)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, player)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var payload map[string]any
	if err := decodeJSON(w, r, &payload); err != nil {
		handleError(w, r, err)
		return
	}

	player, err := s.PlayerService.UpdatePlayer(r.Context(), id, payload)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, player)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.PlayerService.DeletePlayer(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Player deleted"})
}
