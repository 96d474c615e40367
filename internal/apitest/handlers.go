package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/sportconnect/pkg/api"
)

const minPasswordLen = 8

// handleToken обрабатывает POST auth/token/
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[req.Username]
	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}

	access, refresh, err := s.issueLocked(acc)
	if err != nil {
		s.logger.Error("failed to issue tokens", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{Access: access, Refresh: refresh})
}

// handleRefresh обрабатывает POST auth/token/refresh/
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	s.mu.Lock()
	hold := s.refreshHold
	s.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.refreshTokens[req.Refresh]
	acc := s.accounts[username]
	if s.rejectRefresh || !ok || acc == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}

	access, err := generateAccessToken(s.jwt, itoa(acc.user.ID), username, s.epoch)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, api.RefreshResponse{Access: access})
}

// handleRegister обрабатывает POST auth/register/
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	fieldErrors := make(map[string][]string)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		fieldErrors["username"] = append(fieldErrors["username"], "This field may not be blank.")
	}
	if len(req.Password) < minPasswordLen {
		fieldErrors["password"] = append(fieldErrors["password"], "Ensure this field has at least 8 characters.")
	}
	if req.Password != req.PasswordConfirm {
		fieldErrors["password_confirm"] = append(fieldErrors["password_confirm"], "Passwords do not match.")
	}

	s.mu.Lock()
	if _, exists := s.accounts[username]; exists {
		fieldErrors["username"] = append(fieldErrors["username"], "A user with that username already exists.")
	}
	s.mu.Unlock()

	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	user := s.AddUser(username, req.Password)

	s.mu.Lock()
	acc := s.accounts[username]
	acc.user.FirstName = req.FirstName
	acc.user.LastName = req.LastName
	acc.user.Email = req.Email
	user = acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.currentAccount(r)
	if !ok {
		s.unauthorized(w, "User not found")
		return
	}

	s.mu.Lock()
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handlePatchMe(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.currentAccount(r)
	if !ok {
		s.unauthorized(w, "User not found")
		return
	}

	var update api.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	s.mu.Lock()
	applyUpdate(&acc.user, update)
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	username, _ := r.Context().Value(usernameKey).(string)

	s.mu.Lock()
	delete(s.accounts, username)
	for token, owner := range s.refreshTokens {
		if owner == username {
			delete(s.refreshTokens, token)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) currentAccount(r *http.Request) (*account, bool) {
	username, _ := r.Context().Value(usernameKey).(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[username]
	return acc, ok
}

func applyUpdate(u *api.User, update api.ProfileUpdate) {
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.City != nil {
		u.City = *update.City
	}
	if update.District != nil {
		u.District = *update.District
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Level != nil {
		u.Level = *update.Level
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
