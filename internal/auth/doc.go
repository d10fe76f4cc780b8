// Package auth guards the gateway's knowledge-base admin routes.
//
// # Tokens
//
// Admins authenticate with HS256 JWTs signed with auth.jwt_secret, which must
// be at least MinSecretLength bytes. The "sub" claim names the admin and ends
// up in audit log lines. Tokens are minted offline:
//
//	campus-gateway token --subject alice --ttl 720h
//
// # HTTP Middleware
//
//	mw := auth.HTTPAuthMiddleware(verifier)
//	mux.Handle("PUT /api/chat/answers", mw(handler))
//
// Handlers read the caller with FromContext. Failures answer 401 with a JSON
// body of the form {"error": "..."}.
package auth
