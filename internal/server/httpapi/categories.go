package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/gorilla/mux"
)

type CategoryHandler struct {
	categories CategoryService
	logger     logging.Logger
}

func NewCategoryHandler(svc CategoryService, logger logging.Logger) *CategoryHandler {
	return &CategoryHandler{categories: svc, logger: logger}
}

// List GET /api/data-categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// Create POST /api/data-categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.categories.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse{Message: "Category created successfully", Data: c})
}

// Get GET /api/data-categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if c.Records == nil {
		c.Records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, c)
}

// Update PUT|PATCH /api/data-categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.CategoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := h.categories.Update(r.Context(), userID(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "Category updated successfully", Data: c})
}

// Delete DELETE /api/data-categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Category deleted successfully")
}
