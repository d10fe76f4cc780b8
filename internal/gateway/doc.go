// Package gateway implements campus-gateway, the single HTTP base URL the
// campus client talks to.
//
// # Overview
//
// The gateway owns the HTTP server, the upstream clients for the users and
// channels services, the chatbot and its knowledge-base store. It listens on
// server.http_addr, or on a Tailscale node when tailscale.enabled is set.
//
// # HTTP API
//
// Proxy routes (forwarded to the upstream services):
//
//	POST   /proxy/auth/login                 -> users    /v1/auth/login
//	POST   /proxy/auth/register              -> users    /v1/users/register
//	GET    /proxy/channels                   -> channels /v1/channels/
//	POST   /proxy/channels                   -> channels /v1/channels/
//	GET    /proxy/channels/owner/{owner_id}  -> channels /v1/members/owner/{owner_id}
//	GET    /proxy/channels/{id}              -> channels /v1/channels/{id}
//	PUT    /proxy/channels/{id}              -> channels /v1/channels/{id}
//	DELETE /proxy/channels/{id}              -> channels /v1/channels/{id}
//	POST   /proxy/channels/{id}/reactivate   -> channels /v1/channels/{id}/reactivate
//
// Local routes:
//
//	POST   /api/chat           chatbot reply {content, author}
//	GET    /api/chat/answers   list knowledge base (bearer JWT)
//	PUT    /api/chat/answers   upsert {question, answer} (bearer JWT)
//	DELETE /api/chat/answers   ?question=... (bearer JWT)
//	GET    /health             liveness
//	GET    /health/ready       knowledge base reachable
//
// The list routes never fail: any upstream problem answers []. Upstream
// rejections elsewhere keep the upstream status with a fixed detail text.
// Transport failures answer 502. Malformed or incomplete bodies answer 422.
// Every error body has the form {"detail": "..."}.
//
// # Middleware
//
// All routes pass through CORS handling (OPTIONS answers 204) and a request
// logger that stamps each request with an X-Request-ID.
package gateway
