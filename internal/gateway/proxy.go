// ABOUTME: Proxy routes forwarding auth and channel calls to the upstream services
// ABOUTME: Maps upstream statuses onto the responses the campus client expects

package gateway

import (
	"net/http"

	"github.com/grupo9/campus-g9/internal/upstream"
)

// Details returned when an upstream rejects a request.
const (
	detailAuth            = "Error Auth"
	detailRegister        = "Error Registro"
	detailUpdate          = "Error update"
	detailDelete          = "Error delete"
	detailUnavailable     = "upstream unavailable"
	detailInvalidUpstream = "invalid upstream response"
)

// AuthRequest is the body of the login and register routes. The client
// sends the same shape to both; each route checks its own required fields.
type AuthRequest struct {
	UsernameOrEmail *string `json:"username_or_email"`
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
}

type loginRequest struct{ AuthRequest }

func (r *loginRequest) validate() error {
	return requireFields(
		field("username_or_email", r.UsernameOrEmail),
		field("password", r.Password),
	)
}

type registerRequest struct{ AuthRequest }

func (r *registerRequest) validate() error {
	return requireFields(
		field("email", r.Email),
		field("username", r.Username),
		field("password", r.Password),
	)
}

// CreateChannelRequest is the body of POST /proxy/channels.
type CreateChannelRequest struct {
	Name        *string `json:"name"`
	OwnerID     *string `json:"owner_id"`
	ChannelType *string `json:"channel_type"`
}

func (r *CreateChannelRequest) validate() error {
	return requireFields(field("name", r.Name), field("owner_id", r.OwnerID))
}

// UpdateChannelRequest is the body of PUT /proxy/channels/{id}.
type UpdateChannelRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

func (r *UpdateChannelRequest) validate() error {
	return requireFields(field("name", r.Name))
}

func (g *Gateway) registerProxyRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /proxy/auth/login", g.handleLogin)
	mux.HandleFunc("POST /proxy/auth/register", g.handleRegister)

	mux.HandleFunc("GET /proxy/channels", g.handleListChannels)
	mux.HandleFunc("POST /proxy/channels", g.handleCreateChannel)
	mux.HandleFunc("GET /proxy/channels/owner/{owner_id}", g.handleListOwnedChannels)
	mux.HandleFunc("GET /proxy/channels/{id}", g.handleGetChannel)
	mux.HandleFunc("PUT /proxy/channels/{id}", g.handleUpdateChannel)
	mux.HandleFunc("DELETE /proxy/channels/{id}", g.handleDeleteChannel)
	mux.HandleFunc("POST /proxy/channels/{id}/reactivate", g.handleReactivateChannel)
}

// relay writes a successful upstream body back to the caller with 200.
func (g *Gateway) relay(w http.ResponseWriter, resp *upstream.Response) {
	if !resp.ValidJSON() {
		g.logger.Warn("upstream returned non-JSON body", "status", resp.Status)
		g.sendJSONError(w, http.StatusBadGateway, detailInvalidUpstream)
		return
	}
	g.sendRaw(w, http.StatusOK, resp.Body)
}

// upstreamFailed answers a transport failure.
func (g *Gateway) upstreamFailed(w http.ResponseWriter, route string, err error) {
	g.logger.Error("upstream call failed", "route", route, "error", err)
	g.sendJSONError(w, http.StatusBadGateway, detailUnavailable)
}

// handleLogin handles POST /proxy/auth/login.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	resp, err := g.users.Login(r.Context(), upstream.LoginRequest{
		UsernameOrEmail: *req.UsernameOrEmail,
		Password:        *req.Password,
	})
	if err != nil {
		g.upstreamFailed(w, "login", err)
		return
	}
	if !resp.OK() {
		g.sendJSONError(w, resp.Status, detailAuth)
		return
	}
	g.relay(w, resp)
}

// handleRegister handles POST /proxy/auth/register.
func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	resp, err := g.users.Register(r.Context(), upstream.RegisterRequest{
		Email:    *req.Email,
		Username: *req.Username,
		Password: *req.Password,
	})
	if err != nil {
		g.upstreamFailed(w, "register", err)
		return
	}
	if !resp.OK() {
		g.sendJSONError(w, resp.Status, detailRegister)
		return
	}
	g.relay(w, resp)
}

// emptyList is returned by the list routes whenever the upstream fails.
var emptyList = []byte("[]")

// handleListChannels handles GET /proxy/channels.
func (g *Gateway) handleListChannels(w http.ResponseWriter, r *http.Request) {
	raw, err := g.channels.List(r.Context())
	if err != nil {
		g.logger.Warn("listing public channels failed", "error", err)
		g.sendRaw(w, http.StatusOK, emptyList)
		return
	}
	g.sendRaw(w, http.StatusOK, raw)
}

// handleListOwnedChannels handles GET /proxy/channels/owner/{owner_id}.
func (g *Gateway) handleListOwnedChannels(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("owner_id")

	raw, err := g.channels.ListByOwner(r.Context(), ownerID)
	if err != nil {
		g.logger.Warn("listing owned channels failed", "owner_id", ownerID, "error", err)
		g.sendRaw(w, http.StatusOK, emptyList)
		return
	}
	g.sendRaw(w, http.StatusOK, raw)
}

// handleCreateChannel handles POST /proxy/channels.
func (g *Gateway) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req CreateChannelRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	resp, err := g.channels.Create(r.Context(), upstream.CreateChannelRequest{
		Name:        *req.Name,
		OwnerID:     *req.OwnerID,
		ChannelType: deref(req.ChannelType),
	})
	if err != nil {
		g.upstreamFailed(w, "create channel", err)
		return
	}
	if !resp.OK() {
		g.sendJSONError(w, resp.Status, string(resp.Body))
		return
	}
	g.relay(w, resp)
}

// handleGetChannel handles GET /proxy/channels/{id}. Anything but an
// upstream 200 with a JSON body answers {}.
func (g *Gateway) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resp, err := g.channels.Get(r.Context(), id)
	if err != nil {
		g.upstreamFailed(w, "get channel", err)
		return
	}
	if resp.Status != http.StatusOK || !resp.ValidJSON() {
		g.sendRaw(w, http.StatusOK, []byte("{}"))
		return
	}
	g.sendRaw(w, http.StatusOK, resp.Body)
}

// handleUpdateChannel handles PUT /proxy/channels/{id}.
func (g *Gateway) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateChannelRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	resp, err := g.channels.Update(r.Context(), id, upstream.UpdateChannelRequest{
		Name:   *req.Name,
		Status: req.Status,
	})
	if err != nil {
		g.upstreamFailed(w, "update channel", err)
		return
	}
	if !resp.OK() {
		g.sendJSONError(w, resp.Status, detailUpdate)
		return
	}
	g.relay(w, resp)
}

// handleDeleteChannel handles DELETE /proxy/channels/{id}.
func (g *Gateway) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resp, err := g.channels.Delete(r.Context(), id)
	if err != nil {
		g.upstreamFailed(w, "delete channel", err)
		return
	}
	if !resp.OK() {
		g.sendJSONError(w, resp.Status, detailDelete)
		return
	}
	g.sendJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReactivateChannel handles POST /proxy/channels/{id}/reactivate.
// The upstream answer is passed through with its own status.
func (g *Gateway) handleReactivateChannel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resp, err := g.channels.Reactivate(r.Context(), id)
	if err != nil {
		g.upstreamFailed(w, "reactivate channel", err)
		return
	}
	if !resp.ValidJSON() {
		g.logger.Warn("upstream returned non-JSON body", "status", resp.Status)
		g.sendJSONError(w, http.StatusBadGateway, detailInvalidUpstream)
		return
	}
	g.sendRaw(w, resp.Status, resp.Body)
}
