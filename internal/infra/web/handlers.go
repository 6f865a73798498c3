// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"campus-chat/internal/config"
	"campus-chat/internal/domain"
	"campus-chat/internal/usecase"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type checkUsernameRequest struct {
	Username string `json:"username"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// registerHandler creates a chat account. The new session cookie is minted
// right away so the login page can redirect into the room.
func registerHandler(accounts usecase.AccountUseCase, auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		acct, err := accounts.Register(ctx, strings.TrimSpace(req.Username), req.Password, strings.TrimSpace(req.Nickname))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrAlreadyExists):
				writeError(w, http.StatusConflict, "username already registered")
			default:
				writeError(w, http.StatusInternalServerError, "registration failed")
			}
			return
		}

		token, err := auth.Mint(w, acct.Username, acct.Nickname)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create session")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"username": acct.Username,
			"nickname": acct.Nickname,
			"token":    token,
		})
	}
}

func loginHandler(accounts usecase.AccountUseCase, auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		acct, err := accounts.Login(ctx, strings.TrimSpace(req.Username), req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid username or password")
				return
			}
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		token, err := auth.Mint(w, acct.Username, acct.Nickname)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create session")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"username": acct.Username,
			"nickname": acct.Nickname,
			"token":    token,
		})
	}
}

func logoutHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.Clear(w)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func sessionHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"username": claims.Username,
			"nickname": claims.Nickname,
		})
	}
}

// checkUsernameHandler reports whether a username is free to join with right
// now. Availability is decided against the live roster, not the account
// table, so a registered but offline name still counts as available.
func checkUsernameHandler(presence usecase.PresenceRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkUsernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		name := strings.TrimSpace(req.Username)
		if name == "" {
			writeJSON(w, http.StatusOK, map[string]any{"available": false, "message": "用户名不能为空"})
			return
		}

		for _, online := range presence.ListUsernames() {
			if online == name {
				writeJSON(w, http.StatusOK, map[string]any{"available": false, "message": "用户名已存在"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"available": true})
	}
}

// serversHandler exposes the endpoint list the login page offers.
func serversHandler(entries []config.ServerEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"servers": entries})
	}
}

// onlineHandler reports the current roster size and names.
func onlineHandler(presence usecase.PresenceRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := presence.ListUsernames()
		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(names),
			"users": names,
		})
	}
}
