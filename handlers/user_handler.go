package handlers

import "net/http"

// UserHandler serves the authenticated user's own profile. User rows are
// created by the Identity middleware, never through an open endpoint.
type UserHandler struct{}

// NewUserHandler creates the handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the caller's profile as asserted by the gateway.
// GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
