// ABOUTME: Chat route answering the client's chat widget
// ABOUTME: Delegates to the chatbot and returns {content, author}

package gateway

import "net/http"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Text *string `json:"text"`
}

func (r *ChatRequest) validate() error {
	return requireFields(field("text", r.Text))
}

// handleChat handles POST /api/chat.
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	reply := g.bot.Answer(r.Context(), *req.Text)
	g.sendJSON(w, http.StatusOK, reply)
}
