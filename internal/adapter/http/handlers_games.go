package adapthttp

import (
	"net/http"

	"gamevault/internal/domain"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	games, err := s.games.List(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		Name  string `json:"name"`
		Genre string `json:"genre"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	game, err := s.games.Create(r.Context(), user.ID, req.Name, req.Genre)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"game": game})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	game, err := s.games.Get(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": game})
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Genre *string `json:"genre"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	game, err := s.games.Update(r.Context(), user.ID, id, domain.GameUpdate{Name: req.Name, Genre: req.Genre})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": game})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.games.Delete(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
