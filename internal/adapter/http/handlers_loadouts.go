package adapthttp

import (
	"net/http"
	"strconv"

	"gamevault/internal/domain"
)

func (s *Server) handleListLoadouts(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var gameID *int64
	if raw := r.URL.Query().Get("game_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid game_id")
			return
		}
		gameID = &id
	}

	loadouts, err := s.loadouts.List(r.Context(), user.ID, gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loadouts": loadouts})
}

func (s *Server) handleCreateLoadout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		Name      string `json:"name"`
		GameID    int64  `json:"game_id"`
		Weapons   string `json:"weapons"`
		Abilities string `json:"abilities"`
		Stats     string `json:"stats"`
		Notes     string `json:"notes"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loadout, err := s.loadouts.Create(r.Context(), user.ID, req.GameID, req.Name, req.Weapons, req.Abilities, req.Stats, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"loadout": loadout})
}

func (s *Server) handleGetLoadout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	loadout, err := s.loadouts.Get(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loadout": loadout})
}

func (s *Server) handleUpdateLoadout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req struct {
		Name      *string `json:"name"`
		GameID    *int64  `json:"game_id"`
		Weapons   *string `json:"weapons"`
		Abilities *string `json:"abilities"`
		Stats     *string `json:"stats"`
		Notes     *string `json:"notes"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loadout, err := s.loadouts.Update(r.Context(), user.ID, id, domain.LoadoutUpdate{
		GameID:    req.GameID,
		Name:      req.Name,
		Weapons:   req.Weapons,
		Abilities: req.Abilities,
		Stats:     req.Stats,
		Notes:     req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loadout": loadout})
}

func (s *Server) handleDeleteLoadout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.loadouts.Delete(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
