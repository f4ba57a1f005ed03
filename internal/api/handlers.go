package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/session"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Host     string `json:"host,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Host      string `json:"host"`
	State     string `json:"state"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type TranscriptResponse struct {
	SessionID string            `json:"session_id"`
	State     string            `json:"state"`
	Turns     []models.ChatTurn `json:"turns"`
}

type RebootRequest struct {
	Confirm bool `json:"confirm"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	host := firstNonEmpty(req.Host, s.config.RouterHost)
	user := firstNonEmpty(req.User, s.config.RouterUser)
	password := firstNonEmpty(req.Password, s.config.RouterPassword)
	credential := firstNonEmpty(req.APIKey, s.credential)

	if host == "" || user == "" {
		s.writeError(w, "host and user are required", http.StatusBadRequest)
		return
	}

	router, err := s.dial(r.Context(), host, user, password)
	if err != nil {
		s.logger.Error().Err(err).Str("host", host).Msg("router connection failed")
		s.writeError(w, "Connection Error: "+err.Error(), http.StatusBadGateway)
		return
	}

	sess := session.New(uuid.New().String(), router, credential)
	s.store.Add(sess)

	s.logger.Info().Str("session", sess.ID).Str("host", host).Msg("session created")

	s.writeJSONStatus(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Host:      host,
		State:     sess.State().String(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "id")) {
		s.writeError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := s.pipeline.Turn(r.Context(), sess, req.Message)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		s.writeError(w, "message is required", http.StatusBadRequest)
		return
	case errors.Is(err, session.ErrNotConnected):
		s.writeError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.logger.Error().Err(err).Str("session", sess.ID).Msg("chat error")
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, ChatResponse{
		SessionID: sess.ID,
		Response:  response,
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}

	s.writeJSON(w, TranscriptResponse{
		SessionID: sess.ID,
		State:     sess.State().String(),
		Turns:     sess.Transcript.Turns(),
	})
}

func (s *Server) handleReboot(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}

	var req RebootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		s.writeError(w, `reboot requires {"confirm": true}`, http.StatusBadRequest)
		return
	}

	if err := s.pipeline.Reboot(r.Context(), sess); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, session.ErrNotConnected) {
			status = http.StatusConflict
		}
		s.writeError(w, "Failed to send reboot command: "+err.Error(), status)
		return
	}

	s.writeJSON(w, StatusResponse{Status: "reboot command sent"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, StatusResponse{Status: "ok"})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		s.writeError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	s.writeJSONStatus(w, http.StatusOK, data)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
