package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bank-assist/internal/convo"
	"bank-assist/internal/repo"

	"github.com/google/uuid"
)

// HistoryReader serves persisted chat history.
type HistoryReader interface {
	History(ctx context.Context, conversationID string, limit int) ([]repo.MessageRecord, error)
}

// ChatServer exposes the dialogue engine over HTTP for non-WhatsApp callers.
type ChatServer struct {
	engine   *convo.Engine
	history  HistoryReader
	sessions *sessions
	logger   *slog.Logger
}

// NewChatServer constructs the HTTP chat surface. history may be nil.
func NewChatServer(engine *convo.Engine, history HistoryReader, logger *slog.Logger) *ChatServer {
	return &ChatServer{
		engine:   engine,
		history:  history,
		sessions: newSessions(),
		logger:   logger.With("component", "chat_http"),
	}
}

// Register mounts the chat routes on mux.
func (s *ChatServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /v1/chat/{conversation}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/chat/{conversation}/transcript", s.handleTranscript)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	MessageID      string `json:"message_id,omitempty"`
	Retry          bool   `json:"retry,omitempty"`
}

type chatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

type chatResponse struct {
	ConversationID   string        `json:"conversation_id"`
	Messages         []chatMessage `json:"messages"`
	FailedMessageIDs []string      `json:"failed_message_ids"`
	AwaitingChoice   bool          `json:"awaiting_choice"`
}

func (s *ChatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		http.Error(w, "conversation_id is required", http.StatusBadRequest)
		return
	}

	msg := convo.NewUserMessage(req.Content)
	if req.Retry {
		// A retry resubmits the original failed message; it must carry the
		// same id so the failure marker clears.
		id, err := uuid.Parse(req.MessageID)
		if err != nil {
			http.Error(w, "retry requires a valid message_id", http.StatusBadRequest)
			return
		}
		msg.ID = id
	}

	conv := s.sessions.get(req.ConversationID, "")
	s.engine.Handle(r.Context(), conv, msg, req.Retry)

	messages := conv.Messages()
	payload := chatResponse{
		ConversationID:   req.ConversationID,
		Messages:         make([]chatMessage, 0, len(messages)),
		FailedMessageIDs: []string{},
		AwaitingChoice:   conv.AwaitingChoice(),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{
			ID:        m.ID.String(),
			Content:   m.Content,
			IsUser:    m.IsUser,
			Timestamp: m.Timestamp,
		})
	}
	for _, id := range conv.FailedIDs() {
		payload.FailedMessageIDs = append(payload.FailedMessageIDs, id.String())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed encoding chat response", "error", err)
	}
}

type historyMessage struct {
	MessageID string    `json:"message_id"`
	Direction string    `json:"direction"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type historyResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []historyMessage `json:"messages"`
}

// handleHistory returns the persisted message log for a conversation,
// oldest first. The optional limit query parameter caps the result.
func (s *ChatServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history store not configured", http.StatusServiceUnavailable)
		return
	}
	conversationID := r.PathValue("conversation")

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.history.History(r.Context(), conversationID, limit)
	if err != nil {
		s.logger.Error("failed reading history", "conversation", conversationID, "error", err)
		http.Error(w, "failed reading history", http.StatusInternalServerError)
		return
	}

	payload := historyResponse{
		ConversationID: conversationID,
		Messages:       make([]historyMessage, 0, len(records)),
	}
	for _, rec := range records {
		payload.Messages = append(payload.Messages, historyMessage{
			MessageID: rec.MessageID.String(),
			Direction: rec.Direction,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed encoding history response", "error", err)
	}
}

// handleTranscript renders a live conversation as a plain-text chat log.
func (s *ChatServer) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conv, found := s.sessions.peek(r.PathValue("conversation"))
	if !found {
		http.Error(w, "unknown conversation", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(convo.Transcript(conv.Messages())))
}

func (s *ChatServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
