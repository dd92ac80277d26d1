package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"unicode/utf8"

	"github.com/fistulo/faqbot/internal/models"
	"go.uber.org/zap"
)

const (
	maxQuestionLen = 150
	maxLanguageLen = 50
)

// Store is the persistence surface the handlers need: append one record,
// read back the newest N.
type Store interface {
	LogInteraction(question, answer, language, userIP string) error
	RecentInteractions(limit int) ([]models.Interaction, error)
}

// AnswerEngine produces an answer string for a question; failures are
// already absorbed into fixed strings, so there is no error to handle here.
type AnswerEngine interface {
	Answer(ctx context.Context, question, language string) string
}

type Handler struct {
	store      Store
	engine     AnswerEngine
	logger     *zap.Logger
	adminToken string
}

func NewHandler(store Store, engine AnswerEngine, logger *zap.Logger, adminToken string) *Handler {
	return &Handler{
		store:      store,
		engine:     engine,
		logger:     logger,
		adminToken: adminToken,
	}
}

type AskRequest struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Oversize input is rejected before any provider call.
	if utf8.RuneCountInString(req.Question) > maxQuestionLen ||
		utf8.RuneCountInString(req.Language) > maxLanguageLen {
		http.Error(w, "Question or language too long", http.StatusUnprocessableEntity)
		return
	}

	answer := h.engine.Answer(r.Context(), req.Question, req.Language)

	// Fire-and-forget: the client never waits on, or hears about, the log
	// write. The goroutine must not borrow the request context.
	userIP := clientIP(r)
	go func() {
		if err := h.store.LogInteraction(req.Question, answer, req.Language, userIP); err != nil {
			h.logger.Error("failed to log interaction",
				zap.Error(err),
				zap.String("user_ip", userIP))
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AskResponse{Answer: answer}); err != nil {
		h.logger.Error("failed to encode answer", zap.Error(err))
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
