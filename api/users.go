package api

import (
	"net/http"

	"github.com/garnizeh/zelar/pkg/models"
	"github.com/garnizeh/zelar/pkg/repository"
)

type UsersHandler struct {
	repo repository.UserRepo
}

func NewUsersHandler(repo repository.UserRepo) *UsersHandler {
	return &UsersHandler{repo: repo}
}

func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if !decode(w, r, &req) {
		return
	}

	id, err := h.repo.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// LookupUser finds an active user by the email query parameter.
func (h *UsersHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	u, err := h.repo.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
