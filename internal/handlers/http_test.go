package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank-assist/internal/bank"
	"bank-assist/internal/convo"
	"bank-assist/internal/intent"
	"bank-assist/internal/metrics"
	"bank-assist/internal/repo"
)

// memoryStore keeps history in a slice so tests can exercise the
// persistence and read-back paths without a database.
type memoryStore struct {
	records []repo.MessageRecord
}

func (s *memoryStore) InsertMessage(_ context.Context, rec repo.MessageRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryStore) History(_ context.Context, conversationID string, limit int) ([]repo.MessageRecord, error) {
	var out []repo.MessageRecord
	for _, rec := range s.records {
		if rec.ConversationID == conversationID {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, store *memoryStore) *http.ServeMux {
	t.Helper()
	mock, err := bank.NewMock()
	if err != nil {
		t.Fatalf("NewMock: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var engineStore convo.HistoryStore
	var reader HistoryReader
	if store != nil {
		engineStore = store
		reader = store
	}
	engine := convo.New(intent.New(intent.Config{}), mock, engineStore, nil, metrics.New("test"), logger, convo.Config{
		ProviderTimeout: time.Second,
	})

	mux := http.NewServeMux()
	NewChatServer(engine, reader, logger).Register(mux)
	return mux
}

func postChat(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	mux := newTestServer(t, nil)

	rec := postChat(t, mux, `{"conversation_id":"c1","content":"show me my transactions"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 4 { // greeting + user + listing + prompt
		t.Fatalf("expected 4 messages, got %d", len(resp.Messages))
	}
	if !resp.AwaitingChoice {
		t.Error("expected awaiting_choice true")
	}
	if len(resp.FailedMessageIDs) != 0 {
		t.Errorf("expected no failed ids, got %v", resp.FailedMessageIDs)
	}

	// Same conversation id keeps the dialogue state across requests.
	rec = postChat(t, mux, `{"conversation_id":"c1","content":"the 150.75 one"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AwaitingChoice {
		t.Error("choice should resolve")
	}
	last := resp.Messages[len(resp.Messages)-1]
	if !strings.Contains(last.Content, "Here are the details:") {
		t.Errorf("unexpected final message: %q", last.Content)
	}
}

func TestChatEndpointFailureAndRetry(t *testing.T) {
	mux := newTestServer(t, nil)

	rec := postChat(t, mux, `{"conversation_id":"c2","content":"show me my transactions fail"}`)
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.FailedMessageIDs) != 1 {
		t.Fatalf("expected 1 failed id, got %v", resp.FailedMessageIDs)
	}
	failedID := resp.FailedMessageIDs[0]

	rec = postChat(t, mux, `{"conversation_id":"c2","content":"show me my transactions fail","message_id":"`+failedID+`","retry":true}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.FailedMessageIDs) != 0 {
		t.Errorf("retry should clear failed ids, got %v", resp.FailedMessageIDs)
	}
	if !resp.AwaitingChoice {
		t.Error("retry should complete the transaction listing")
	}
}

func TestChatEndpointValidation(t *testing.T) {
	mux := newTestServer(t, nil)

	if rec := postChat(t, mux, `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid body: status = %d", rec.Code)
	}
	if rec := postChat(t, mux, `{"content":"hi"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing conversation_id: status = %d", rec.Code)
	}
	if rec := postChat(t, mux, `{"conversation_id":"c3","content":"hi","retry":true}`); rec.Code != http.StatusBadRequest {
		t.Errorf("retry without message_id: status = %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	store := &memoryStore{}
	mux := newTestServer(t, store)

	postChat(t, mux, `{"conversation_id":"c4","content":"thanks"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/c4/history", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ConversationID != "c4" {
		t.Errorf("conversation_id = %q", resp.ConversationID)
	}
	if len(resp.Messages) != 2 { // user turn + acknowledgment
		t.Fatalf("expected 2 persisted messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Direction != "incoming" || resp.Messages[1].Direction != "outgoing" {
		t.Errorf("unexpected directions: %s, %s", resp.Messages[0].Direction, resp.Messages[1].Direction)
	}

	// Other conversations stay invisible.
	req = httptest.NewRequest(http.MethodGet, "/v1/chat/other/history", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("expected empty history, got %d messages", len(resp.Messages))
	}
}

func TestHistoryEndpointValidation(t *testing.T) {
	mux := newTestServer(t, &memoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/c5/history?limit=nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d", rec.Code)
	}

	// Without a store the endpoint reports unavailable instead of panicking.
	mux = newTestServer(t, nil)
	req = httptest.NewRequest(http.MethodGet, "/v1/chat/c5/history", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("no store: status = %d", rec.Code)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	mux := newTestServer(t, nil)

	postChat(t, mux, `{"conversation_id":"c6","content":"thanks"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/c6/transcript", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "User: thanks") {
		t.Errorf("transcript missing user turn: %q", body)
	}
	if !strings.Contains(body, "BankChatAI:") {
		t.Errorf("transcript missing bot turns: %q", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/chat/unknown/transcript", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown conversation: status = %d", rec.Code)
	}
}
