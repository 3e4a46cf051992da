package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/gorilla/mux"
)

type RecordHandler struct {
	records RecordService
	logger  logging.Logger
}

func NewRecordHandler(svc RecordService, logger logging.Logger) *RecordHandler {
	return &RecordHandler{records: svc, logger: logger}
}

// List GET /api/personal-data?category_id=&favorites=&search=&page=&per_page=
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := pageParams(q)
	f := models.RecordFilter{
		FavoritesOnly: truthy(q.Get("favorites")),
		Search:        q.Get("search"),
		Page:          page,
		PerPage:       perPage,
	}
	if q.Has("category_id") {
		id := q.Get("category_id")
		f.CategoryID = &id
	}

	p, err := h.records.List(r.Context(), userID(r), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create POST /api/personal-data
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RecordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := h.records.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse{Message: "Personal data created successfully", Data: rec})
}

// Get GET /api/personal-data/{id}
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Update PUT|PATCH /api/personal-data/{id}
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.RecordPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	rec, err := h.records.Update(r.Context(), userID(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "Personal data updated successfully", Data: rec})
}

// Delete DELETE /api/personal-data/{id}
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Personal data deleted successfully")
}

// Reset DELETE /api/personal-data
func (h *RecordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.records.ResetAll(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message      string `json:"message"`
		DeletedCount int64  `json:"deleted_count"`
	}{"Vault reset successfully", n})
}

// Search GET /api/personal-data/search/{query}
func (h *RecordHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r.URL.Query())
	p, err := h.records.Search(r.Context(), userID(r), mux.Vars(r)["query"], page, perPage)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ByCategory GET /api/personal-data/category/{category}
func (h *RecordHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r.URL.Query())
	p, err := h.records.ListByCategoryName(r.Context(), userID(r), mux.Vars(r)["category"], page, perPage)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// pageParams reads page and per_page; unparsable values fall back to the
// service defaults.
func pageParams(q url.Values) (int, int) {
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return page, perPage
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
