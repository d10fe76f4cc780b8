// ABOUTME: Admin routes for managing the chatbot knowledge base over HTTP
// ABOUTME: Registered only when a JWT secret is configured

package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/grupo9/campus-g9/internal/auth"
	"github.com/grupo9/campus-g9/internal/store"
)

// AnswerResponse is one knowledge-base entry as returned by the admin routes.
type AnswerResponse struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PutAnswerRequest is the body of PUT /api/chat/answers.
type PutAnswerRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

func (r *PutAnswerRequest) validate() error {
	return requireFields(field("question", r.Question), field("answer", r.Answer))
}

func toAnswerResponse(a *store.Answer) AnswerResponse {
	return AnswerResponse{
		Question:  a.Question,
		Answer:    a.Answer,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func (g *Gateway) registerAnswerRoutes(mux *http.ServeMux) {
	if g.verifier == nil {
		g.logger.Warn("knowledge base admin routes disabled - no jwt_secret configured")
		return
	}

	authMiddleware := auth.HTTPAuthMiddleware(g.verifier)
	mux.Handle("GET /api/chat/answers", authMiddleware(http.HandlerFunc(g.handleListAnswers)))
	mux.Handle("PUT /api/chat/answers", authMiddleware(http.HandlerFunc(g.handlePutAnswer)))
	mux.Handle("DELETE /api/chat/answers", authMiddleware(http.HandlerFunc(g.handleDeleteAnswer)))
	g.logger.Info("knowledge base admin routes enabled")
}

// handleListAnswers handles GET /api/chat/answers.
func (g *Gateway) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := g.bot.ListAnswers(r.Context())
	if err != nil {
		g.logger.Error("listing answers failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "failed to list answers")
		return
	}

	resp := make([]AnswerResponse, 0, len(answers))
	for _, a := range answers {
		resp = append(resp, toAnswerResponse(a))
	}
	g.sendJSON(w, http.StatusOK, resp)
}

// handlePutAnswer handles PUT /api/chat/answers.
func (g *Gateway) handlePutAnswer(w http.ResponseWriter, r *http.Request) {
	var req PutAnswerRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	a, err := g.bot.PutAnswer(r.Context(), *req.Question, *req.Answer)
	if errors.Is(err, store.ErrEmptyQuestion) {
		g.sendJSONError(w, http.StatusUnprocessableEntity, "question must not be empty")
		return
	}
	if err != nil {
		g.logger.Error("storing answer failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "failed to store answer")
		return
	}

	g.logger.Info("knowledge base entry stored",
		"question", a.Question,
		"subject", subjectOf(r),
	)
	g.sendJSON(w, http.StatusOK, toAnswerResponse(a))
}

// handleDeleteAnswer handles DELETE /api/chat/answers?question=...
func (g *Gateway) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	if question == "" {
		g.sendJSONError(w, http.StatusUnprocessableEntity, "field required: question")
		return
	}

	err := g.bot.DeleteAnswer(r.Context(), question)
	if errors.Is(err, store.ErrNotFound) {
		g.sendJSONError(w, http.StatusNotFound, "answer not found")
		return
	}
	if err != nil {
		g.logger.Error("deleting answer failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "failed to delete answer")
		return
	}

	g.logger.Info("knowledge base entry deleted",
		"question", store.NormalizeQuestion(question),
		"subject", subjectOf(r),
	)
	w.WriteHeader(http.StatusNoContent)
}

func subjectOf(r *http.Request) string {
	if a := auth.FromContext(r.Context()); a != nil {
		return a.Subject
	}
	return ""
}
