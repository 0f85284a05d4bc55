package api

import (
	"net/http"

	"github.com/garnizeh/zelar/pkg/models"
	"github.com/garnizeh/zelar/pkg/repository"
)

type GuardiansHandler struct {
	repo repository.GuardianRepo
}

func NewGuardiansHandler(repo repository.GuardianRepo) *GuardiansHandler {
	return &GuardiansHandler{repo: repo}
}

func (h *GuardiansHandler) CreateGuardian(w http.ResponseWriter, r *http.Request) {
	var g models.Guardian
	if !decode(w, r, &g) {
		return
	}

	id, err := h.repo.CreateGuardian(r.Context(), &g)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *GuardiansHandler) ListGuardians(w http.ResponseWriter, r *http.Request) {
	guardians, err := h.repo.ListGuardians(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guardians)
}
