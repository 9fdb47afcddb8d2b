package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"maestro/pkg/agent"
	"maestro/pkg/api"
	"maestro/pkg/auth"
	"maestro/pkg/llm"
	"maestro/pkg/monitor"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conv, history, ok := s.resolveConversation(w, r, &req)
	if !ok {
		return
	}

	var agentCfg *api.AgentConfig
	agentID := req.AgentID
	if agentID == "" {
		agentID = conv.AgentID
	}
	if agentID != "" {
		var err error
		agentCfg, err = s.store.GetAgent(r.Context(), claims.UserID, agentID)
		if errors.Is(err, api.ErrNotFound) {
			writeError(w, http.StatusNotFound, "agent not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load agent")
			return
		}
	}

	cfg := agent.ResolveConfig(&req, agentCfg)
	if !s.sys.EnableTools {
		// Tools disabled system-wide: every chat request is a single
		// plain completion, whatever the request asked for.
		cfg.UseTools = false
	}

	client, err := s.selector.Select(cfg.Provider, cfg.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolver := agent.NewToolActionResolver(s.registry)
	result, ok := s.runLoop(w, r, client, cfg, resolver, history, req.Message)
	if !ok {
		return
	}

	s.recordExchange(r.Context(), claims, conv, req.Message, result.Answer)

	writeJSON(w, http.StatusOK, api.ChatResponse{
		Reply:          result.Answer,
		Model:          client.Model(),
		ConversationID: conv.ID,
		ToolsUsed:      result.ToolsUsed,
		Steps:          result.Steps,
	})
}

func (s *Server) handleExecuteTeam(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	teamID := chi.URLParam(r, "id")

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	team, err := s.store.GetTeam(r.Context(), claims.UserID, teamID)
	if errors.Is(err, api.ErrNotFound) {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load team")
		return
	}

	coordinator, err := s.store.GetAgent(r.Context(), claims.UserID, team.CoordinatorID)
	if err != nil {
		writeError(w, http.StatusNotFound, "team coordinator not found")
		return
	}

	var members []*api.AgentConfig
	for _, id := range team.MemberIDs {
		member, err := s.store.GetAgent(r.Context(), claims.UserID, id)
		if err != nil {
			slog.WarnContext(r.Context(), "Team member missing, excluding from roster", "team", team.ID, "agent", id)
			continue
		}
		members = append(members, member)
	}

	conv, history, ok := s.resolveConversation(w, r, &req)
	if !ok {
		return
	}

	cfg := agent.ResolveConfig(&req, coordinator)
	// Delegation rides on the tag grammar, so a coordinator always runs
	// with the loop enabled.
	cfg.UseTools = true

	client, err := s.selector.Select(cfg.Provider, cfg.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolver := agent.NewTeamActionResolver(s.selector, s.registry, members)
	result, ok := s.runLoop(w, r, client, cfg, resolver, history, req.Message)
	if !ok {
		return
	}

	s.recordExchange(r.Context(), claims, conv, req.Message, result.Answer)

	writeJSON(w, http.StatusOK, api.ChatResponse{
		Reply:          result.Answer,
		Model:          client.Model(),
		ConversationID: conv.ID,
		ToolsUsed:      result.ToolsUsed,
		Steps:          result.Steps,
	})
}

// resolveConversation loads the requested conversation with its history,
// or starts a new one. It writes the error response itself when it
// reports !ok.
func (s *Server) resolveConversation(w http.ResponseWriter, r *http.Request, req *api.ChatRequest) (*api.Conversation, []llm.Message, bool) {
	claims := claimsFrom(r.Context())

	if req.ConversationID == "" {
		conv := &api.Conversation{
			UserID:  claims.UserID,
			AgentID: req.AgentID,
			Title:   conversationTitle(req.Message),
		}
		if err := s.store.CreateConversation(r.Context(), conv); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create conversation")
			return nil, nil, false
		}
		return conv, nil, true
	}

	conv, err := s.store.GetConversation(r.Context(), claims.UserID, req.ConversationID)
	if errors.Is(err, api.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return nil, nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return nil, nil, false
	}

	turns, err := s.store.ListTurns(r.Context(), conv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return nil, nil, false
	}

	history := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		history = append(history, llm.NewMessage(t.Role, t.Content))
	}
	return conv, history, true
}

// runLoop executes the reasoning loop with progress streamed to the
// user's websocket sessions. It writes the error response itself when it
// reports !ok.
func (s *Server) runLoop(w http.ResponseWriter, r *http.Request, client llm.Client, cfg agent.EffectiveConfig, resolver agent.ActionResolver, history []llm.Message, message string) (*agent.Result, bool) {
	claims := claimsFrom(r.Context())

	sink := func(event api.LoopEvent) {
		s.hub.Send(claims.UserID, event)
	}

	// No deadline here: each completion call carries its own timeout and
	// a multi-step run may legitimately take longer than any single call.
	eng := agent.NewEngine(client, cfg, resolver, sink)
	result, err := eng.Run(r.Context(), history, message)
	if err != nil {
		slog.ErrorContext(r.Context(), "Loop run failed", "provider", client.Provider(), "model", client.Model(), "error", err)
		if errors.Is(err, llm.ErrProviderUnavailable) {
			writeError(w, http.StatusBadGateway, "completion provider unavailable")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "chat failed")
		return nil, false
	}
	return result, true
}

func (s *Server) recordExchange(ctx context.Context, claims *auth.Claims, conv *api.Conversation, userMessage, reply string) {
	if _, err := s.store.AppendTurn(ctx, conv.ID, llm.RoleUser, userMessage); err != nil {
		slog.ErrorContext(ctx, "Failed to persist user turn", "conversation", conv.ID, "error", err)
	}
	if _, err := s.store.AppendTurn(ctx, conv.ID, llm.RoleAssistant, reply); err != nil {
		slog.ErrorContext(ctx, "Failed to persist assistant turn", "conversation", conv.ID, "error", err)
	}

	if s.monitor != nil {
		now := time.Now()
		s.monitor.OnMessage(monitor.MonitorMessage{
			Timestamp: now, MessageType: "USER",
			UserID: claims.UserID, Username: claims.Username, Content: userMessage,
		})
		s.monitor.OnMessage(monitor.MonitorMessage{
			Timestamp: now, MessageType: "ASSISTANT",
			UserID: claims.UserID, Username: claims.Username, Content: reply,
		})
	}
}

func conversationTitle(message string) string {
	title := strings.TrimSpace(message)
	// Cut on a rune boundary so multibyte text stays valid UTF-8.
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60]) + "…"
	}
	return title
}
