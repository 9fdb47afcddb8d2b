package server

import (
	"errors"
	"net/http"
	"strings"

	"maestro/pkg/api"
	"maestro/pkg/store"

	"github.com/go-chi/chi/v5"
)

// --- agents ---

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var agent api.AgentConfig
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(agent.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	agent.ID = ""
	agent.UserID = claims.UserID
	if err := s.store.CreateAgent(r.Context(), &agent); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create agent")
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	agent, err := s.store.GetAgent(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "agent")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	agents, err := s.store.ListAgents(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []api.AgentConfig{}
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var agent api.AgentConfig
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	agent.ID = chi.URLParam(r, "id")
	agent.UserID = claims.UserID

	if err := s.store.UpdateAgent(r.Context(), &agent); err != nil {
		writeStoreError(w, err, "agent")
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.DeleteAgent(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "agent")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- teams ---

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var team api.TeamConfig
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(team.Name) == "" || team.CoordinatorID == "" {
		writeError(w, http.StatusBadRequest, "name and coordinator_id are required")
		return
	}

	team.ID = ""
	team.UserID = claims.UserID
	if err := s.store.CreateTeam(r.Context(), &team); err != nil {
		if errors.Is(err, store.ErrCoordinatorInMembers) || errors.Is(err, store.ErrInvalidExecutionMode) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	team, err := s.store.GetTeam(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "team")
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	teams, err := s.store.ListTeams(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	if teams == nil {
		teams = []api.TeamConfig{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var team api.TeamConfig
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	team.ID = chi.URLParam(r, "id")
	team.UserID = claims.UserID

	if err := s.store.UpdateTeam(r.Context(), &team); err != nil {
		if errors.Is(err, store.ErrCoordinatorInMembers) || errors.Is(err, store.ErrInvalidExecutionMode) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeStoreError(w, err, "team")
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.DeleteTeam(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "team")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- conversations ---

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	convs, err := s.store.ListConversations(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	if convs == nil {
		convs = []api.Conversation{}
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	conv, err := s.store.GetConversation(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	conv, err := s.store.GetConversation(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "conversation")
		return
	}

	turns, err := s.store.ListTurns(r.Context(), conv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list turns")
		return
	}
	if turns == nil {
		turns = []api.ConversationTurn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.DeleteConversation(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- list items ---

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	items, err := s.store.ListItems(r.Context(), claims.UserID, r.URL.Query().Get("list"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []api.ListItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateListItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var item api.ListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(item.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if item.List == "" {
		item.List = "default"
	}

	item.ID = ""
	item.UserID = claims.UserID
	if err := s.store.CreateListItem(r.Context(), &item); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateListItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var item api.ListItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "id")
	item.UserID = claims.UserID

	if err := s.store.UpdateListItem(r.Context(), &item); err != nil {
		writeStoreError(w, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteListItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.DeleteListItem(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error, kind string) {
	if errors.Is(err, api.ErrNotFound) {
		writeError(w, http.StatusNotFound, kind+" not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to access "+kind)
}
