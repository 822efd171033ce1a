package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"github.com/rcornejom06/authcore/internal/server/models"
	"github.com/rcornejom06/authcore/internal/server/services"
)

type sessionResponse struct {
	Message string                `json:"message"`
	Token   string                `json:"token"`
	User    *models.PublicAccount `json:"user"`
}

type userResponse struct {
	Message string                `json:"message,omitempty"`
	User    *models.PublicAccount `json:"user"`
}

type usersResponse struct {
	Users []*models.PublicAccount `json:"users"`
	Total int                     `json:"total"`
}

type deletedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.logFailure(r, "register failed", err)
		writeError(w, err)
		return
	}
	s.logger.Info(r.Context(), "user registered", "user_id", sess.Account.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Message: "user registered", Token: sess.Token, User: sess.Account})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.users.Login(r.Context(), req)
	if err != nil {
		s.logFailure(r, "login failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Message: "login successful", Token: sess.Token, User: sess.Account})
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	account, err := s.users.Profile(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: account})
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.logFailure(r, "list users failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: list, Total: len(list)})
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: account})
}

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	account, err := s.users.Create(r.Context(), req)
	if err != nil {
		s.logFailure(r, "create user failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{Message: "user created", User: account})
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	account, err := s.users.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.logFailure(r, "update user failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Message: "user updated", User: account})
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.users.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.logFailure(r, "delete user failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user deleted",
		"user":    deletedUser{ID: account.ID, Name: account.DisplayName, Email: account.Email},
	})
}

// logFailure logs client errors at Warn with their kind only and server-side
// failures at Error with the wrapped cause.
func (s *HTTPServer) logFailure(r *http.Request, msg string, err error) {
	kind := common.Classify(err)
	if statusFor(kind) >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), msg, "kind", kind, "error", err)
		return
	}
	s.logger.Warn(r.Context(), msg, "kind", kind)
}
