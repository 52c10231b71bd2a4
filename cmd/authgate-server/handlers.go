package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mvickers07/authgate"
)

// authHandlers exposes the authentication core over HTTP.
type authHandlers struct {
	svc *authgate.Service
	log *logrus.Logger
}

func (h *authHandlers) registerRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.register).Methods("POST")
	r.HandleFunc("/auth/login", h.login).Methods("POST")
	r.HandleFunc("/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/auth/session", h.session).Methods("GET")
	r.HandleFunc("/auth/password/strength", h.passwordStrength).Methods("POST")
	r.HandleFunc("/auth/lockouts/{username}", h.lockoutStatus).Methods("GET")
	r.HandleFunc("/auth/lockouts/{username}", h.resetLockout).Methods("DELETE")
}

func (h *authHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !parseJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = string(authgate.RoleUser)
	}
	role, ok := authgate.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, authgate.ErrInvalidRole)
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.log.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("user registered")
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *authHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !parseJSON(w, r, &req) {
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.log.WithField("username", sess.Username).Info("login")
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      sess.Token,
		"username":   sess.Username,
		"role":       sess.Role,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *authHandlers) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return
	}
	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *authHandlers) session(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return
	}
	id, err := h.svc.Validate(r.Context(), token)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username": id.Username,
		"role":     id.Role,
	})
}

func (h *authHandlers) passwordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !parseJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"strength": h.svc.ClassifyPassword(req.Password).String(),
	})
}

func (h *authHandlers) lockoutStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, authgate.AdminOnly) {
		return
	}
	username := mux.Vars(r)["username"]
	status, err := h.svc.LockoutStatus(r.Context(), username)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"failures": status.Failures,
		"locked":   status.Locked,
		"until":    status.Until,
	})
}

func (h *authHandlers) resetLockout(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, authgate.AdminOnly) {
		return
	}
	username := mux.Vars(r)["username"]
	if err := h.svc.ResetLockout(r.Context(), username); err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.log.WithField("username", username).Info("lockout reset")
	w.WriteHeader(http.StatusNoContent)
}

// requireRole authorizes the request's bearer token against allowed and
// writes the failure response itself when the check does not pass.
func (h *authHandlers) requireRole(w http.ResponseWriter, r *http.Request, allowed authgate.RoleSet) bool {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return false
	}
	if _, err := h.svc.Authorize(r.Context(), token, allowed); err != nil {
		h.writeAuthError(w, err)
		return false
	}
	return true
}

func (h *authHandlers) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authgate.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, authgate.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, authgate.ErrAccountLocked):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, authgate.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, authgate.ErrDuplicateUser):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, authgate.ErrWeakPassword),
		errors.Is(err, authgate.ErrInvalidUsername),
		errors.Is(err, authgate.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, err)
	default:
		h.log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

func parseJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
