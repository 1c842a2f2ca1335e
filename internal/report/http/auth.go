package http

import (
	"errors"
	"net/http"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/service"
	"github.com/dailyops/opsreport/pkg/authclient"
	"github.com/dailyops/opsreport/pkg/httpx"
	"github.com/dailyops/opsreport/pkg/slogx"
)

// wireUser converts a domain user to the wire shape shared with the SDK.
func wireUser(u domain.User) authclient.User {
	return authclient.User{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     authclient.Role(u.Role),
		Area:     u.Area,
	}
}

// writeServiceError maps service-level errors onto the shared wire taxonomy.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authclient.NewAPIError(http.StatusUnauthorized,
			authclient.CodeInvalidCredentials, "invalid username or password").Write(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		authclient.NewAPIError(http.StatusUnauthorized,
			authclient.CodeInvalidRefresh, "refresh token expired or revoked").Write(w)
	case errors.Is(err, service.ErrWrongPassword):
		authclient.NewAPIError(http.StatusBadRequest,
			authclient.CodeWrongPassword, "current password is incorrect").Write(w)
	case errors.Is(err, service.ErrWeakPassword):
		authclient.NewAPIError(http.StatusBadRequest,
			authclient.CodeWeakPassword, "new password does not meet the length requirement").Write(w)
	case errors.Is(err, service.ErrValidation):
		authclient.NewAPIError(http.StatusBadRequest,
			authclient.CodeValidation, err.Error()).Write(w)
	default:
		log.Error("request failed", "error", err)
		authclient.NewAPIError(http.StatusInternalServerError,
			authclient.CodeServerError, "internal error").Write(w)
	}
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	authclient.NewAPIError(http.StatusBadRequest, authclient.CodeValidation, detail).Write(w)
}

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authclient.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         wireUser(user),
	})
}

type RefreshHandler struct {
	AuthService *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if req.RefreshToken == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	_, pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authclient.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// VerifyHandler answers whether the presented access token is accepted. The
// authn middleware has already done the work by the time this runs.
type VerifyHandler struct{}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"user_id": httpx.UserIDFromContext(r.Context()),
	})
}

type MeHandler struct {
	AuthService *service.AuthService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	user, err := h.AuthService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, wireUser(user))
}

type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	if err := h.AuthService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeBadRequest(w, "current_password and new_password are required")
		return
	}

	userID := httpx.UserIDFromContext(r.Context())
	if err := h.AuthService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
