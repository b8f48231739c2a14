package server

import (
	"errors"
	"net/http"

	"tastebook/internal/auth"
	"tastebook/internal/model"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(w, r, &creds, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), creds)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(w, r, &creds, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		h.recordAuthFailure(err)
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(h.auth.SessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) recordAuthFailure(err error) {
	if h.metrics == nil {
		return
	}
	reason := "error"
	var verrs model.ValidationErrors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, auth.ErrAccountLocked):
		reason = "locked"
	case errors.Is(err, auth.ErrAccountInactive):
		reason = "inactive"
	case errors.As(err, &verrs):
		reason = "validation"
	}
	h.metrics.RecordAuthFailure(reason)
}

// logout deletes the session if there is one. It succeeds without a cookie
// so that clients can always reset their state.
func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// check reports whether the request carries a valid session. It never
// answers 401.
func (h *handler) check(w http.ResponseWriter, r *http.Request) {
	status := model.AuthStatus{}
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		_, err := h.auth.Authenticate(r.Context(), cookie.Value)
		switch {
		case err == nil:
			status.Authenticated = true
		case !errors.Is(err, auth.ErrUnauthenticated):
			writeError(w, r, h.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, status)
}
