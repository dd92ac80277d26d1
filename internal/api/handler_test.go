package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fistulo/faqbot/internal/models"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu          sync.Mutex
	logged      []models.Interaction
	logErr      error
	recent      []models.Interaction
	recentErr   error
	recentCalls []int
	written     chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{written: make(chan struct{}, 8)}
}

func (s *fakeStore) LogInteraction(question, answer, language, userIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr == nil {
		s.logged = append(s.logged, models.Interaction{
			Question: question,
			Answer:   answer,
			Language: language,
			UserIP:   userIP,
		})
	}
	s.written <- struct{}{}
	return s.logErr
}

func (s *fakeStore) RecentInteractions(limit int) ([]models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentCalls = append(s.recentCalls, limit)
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	return s.recent, nil
}

func (s *fakeStore) waitForWrite(t *testing.T) {
	t.Helper()
	select {
	case <-s.written:
	case <-time.After(2 * time.Second):
		t.Fatalf("log write never happened")
	}
}

type fakeEngine struct {
	mu        sync.Mutex
	answer    string
	questions []string
}

func (e *fakeEngine) Answer(_ context.Context, question, _ string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.questions = append(e.questions, question)
	return e.answer
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions)
}

func newTestHandler(store *fakeStore, engine *fakeEngine) *Handler {
	return NewHandler(store, engine, zap.NewNop(), "secret")
}

func postAsk(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleAsk(w, req)
	return w
}

func TestHandleAskReturnsAnswerAndLogs(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{answer: "I like hiking."}
	h := newTestHandler(store, engine)

	w := postAsk(h, `{"question":"What are your hobbies?","language":"English"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	var resp AskResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "I like hiking." {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}

	store.waitForWrite(t)
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.logged) != 1 {
		t.Fatalf("want 1 logged record, got %d", len(store.logged))
	}
	rec := store.logged[0]
	if rec.Question != "What are your hobbies?" || rec.Answer != "I like hiking." || rec.Language != "English" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.UserIP != "192.0.2.1" { // httptest.NewRequest's RemoteAddr, port stripped
		t.Fatalf("unexpected user ip: %q", rec.UserIP)
	}
}

func TestHandleAskStoreFailureDoesNotChangeAnswer(t *testing.T) {
	store := newFakeStore()
	store.logErr = errors.New("disk full")
	engine := &fakeEngine{answer: "I like hiking."}
	h := newTestHandler(store, engine)

	w := postAsk(h, `{"question":"What are your hobbies?","language":"English"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp AskResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "I like hiking." {
		t.Fatalf("store failure leaked into answer: %q", resp.Answer)
	}
	store.waitForWrite(t)
}

func TestHandleAskLengthBoundary(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{answer: "ok"}
	h := newTestHandler(store, engine)

	exact := strings.Repeat("a", 150)
	w := postAsk(h, `{"question":"`+exact+`","language":"English"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("150-char question rejected: %d", w.Code)
	}
	if engine.callCount() != 1 {
		t.Fatalf("engine not invoked for valid question")
	}
	store.waitForWrite(t)

	over := strings.Repeat("a", 151)
	w = postAsk(h, `{"question":"`+over+`","language":"English"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("151-char question not rejected: %d", w.Code)
	}
	if engine.callCount() != 1 {
		t.Fatalf("engine invoked for oversize question")
	}

	// Limits count characters, not bytes.
	multibyte := strings.Repeat("ä", 150)
	w = postAsk(h, `{"question":"`+multibyte+`","language":"English"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("150-rune multibyte question rejected: %d", w.Code)
	}
	store.waitForWrite(t)

	longLang := strings.Repeat("x", 51)
	w = postAsk(h, `{"question":"hi","language":"`+longLang+`"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("51-char language not rejected: %d", w.Code)
	}
}

func TestHandleAskRejectsBadRequests(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{answer: "ok"}
	h := newTestHandler(store, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	w := httptest.NewRecorder()
	h.HandleAsk(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET not rejected: %d", w.Code)
	}

	if w := postAsk(h, `{not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body not rejected: %d", w.Code)
	}
	if engine.callCount() != 0 {
		t.Fatalf("engine invoked for invalid request")
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(newFakeStore(), &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", resp)
	}
}
