package handlers

import (
	"Classifieds/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// TaxonomyHandler — главная страница и страница группы.
type TaxonomyHandler struct {
	Taxonomy *service.TaxonomyService
	Logger   *zap.SugaredLogger
}

func NewTaxonomyHandler(taxonomy *service.TaxonomyService, logger *zap.SugaredLogger) *TaxonomyHandler {
	return &TaxonomyHandler{Taxonomy: taxonomy, Logger: logger}
}

// Index отдаёт разделы и группы с числом активных объявлений.
func (h *TaxonomyHandler) Index(w http.ResponseWriter, r *http.Request) {
	idx, err := h.Taxonomy.Index(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, idx)
}

// Group отдаёт группу и её активные объявления. Slug в URL не проверяется.
func (h *TaxonomyHandler) Group(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	detail, err := h.Taxonomy.Group(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
