package api

import (
	"net/http"

	"github.com/garnizeh/zelar/pkg/models"
	"github.com/garnizeh/zelar/pkg/repository"
)

type ResidentsHandler struct {
	residents repository.ResidentRepo
	items     repository.ItemRepo
}

func NewResidentsHandler(rr repository.ResidentRepo, ir repository.ItemRepo) *ResidentsHandler {
	return &ResidentsHandler{residents: rr, items: ir}
}

func (h *ResidentsHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var res models.Resident
	if !decode(w, r, &res) {
		return
	}

	id, err := h.residents.CreateResident(r.Context(), &res)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *ResidentsHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	list, err := h.residents.ListResidents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ResidentsHandler) GetResident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.residents.GetResidentByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if res == nil {
		writeMessage(w, http.StatusNotFound, "resident not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateItem registers a personal item for the resident in the path.
func (h *ResidentsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var it models.Item
	if !decode(w, r, &it) {
		return
	}
	it.ResidentID = id

	itemID, err := h.items.CreateItem(r.Context(), &it)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: itemID})
}

func (h *ResidentsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := h.items.ListItemsByResident(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
