package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/16880444c/V4/internal/inspect"
	"github.com/16880444c/V4/internal/loader"
	"github.com/16880444c/V4/internal/model"
	"github.com/16880444c/V4/internal/service"
)

// AgreementHandler serves the catalog: scopes, styles and per-set load reports.
type AgreementHandler struct {
	library      *loader.Library
	defaultStyle service.Style
	debugEnabled bool
}

// NewAgreementHandler creates a new AgreementHandler.
func NewAgreementHandler(library *loader.Library, defaultStyle service.Style, debugEnabled bool) *AgreementHandler {
	return &AgreementHandler{
		library:      library,
		defaultStyle: defaultStyle,
		debugEnabled: debugEnabled,
	}
}

// Scopes handles GET /v1/scopes.
func (h *AgreementHandler) Scopes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scopes := h.library.Catalog().Scopes
	out := make([]model.ScopeInfo, 0, len(scopes))
	for _, sc := range scopes {
		missing := h.library.Missing(ctx, sc)
		out = append(out, model.ScopeInfo{
			Name:      sc.Name,
			Title:     sc.Title,
			Family:    sc.Family,
			Sets:      sc.Sets,
			Available: len(missing) == 0,
			Missing:   missing,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Styles handles GET /v1/styles.
func (h *AgreementHandler) Styles(w http.ResponseWriter, r *http.Request) {
	out := make([]model.StyleInfo, 0, len(service.Styles))
	for _, s := range service.Styles {
		out = append(out, model.StyleInfo{
			Name:        string(s),
			Description: s.Description(),
			Default:     s == h.defaultStyle,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// List handles GET /v1/agreements: one load report per document set.
func (h *AgreementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sets := h.library.Catalog().Sets
	out := make([]inspect.Report, 0, len(sets))
	for _, set := range sets {
		res, err := h.library.Result(ctx, set.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		out = append(out, inspect.Inspect(set, res))
	}
	writeJSON(w, http.StatusOK, out)
}

// Inspect handles GET /v1/agreements/{name}/inspect.
func (h *AgreementHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	set, ok := h.library.Catalog().Set(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown agreement %q", name))
		return
	}
	res, err := h.library.Result(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inspect.Inspect(set, res))
}

// Context handles GET /v1/agreements/{name}/context: the serialized text the
// model would see for this set. Only available when debugging is enabled.
func (h *AgreementHandler) Context(w http.ResponseWriter, r *http.Request) {
	if !h.debugEnabled {
		writeError(w, http.StatusNotFound, "not_found", "context rendering is disabled")
		return
	}
	name := chi.URLParam(r, "name")
	set, ok := h.library.Catalog().Set(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown agreement %q", name))
		return
	}
	doc := h.library.Document(r.Context(), name)
	if doc == nil {
		writeError(w, http.StatusNotFound, "not_found", set.Label+" not found.")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(service.FormatAgreement(doc, set.Label)))
}
