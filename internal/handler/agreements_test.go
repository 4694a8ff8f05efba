package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/16880444c/V4/internal/inspect"
	"github.com/16880444c/V4/internal/model"
	"github.com/16880444c/V4/internal/service"
	"github.com/16880444c/V4/internal/session"
)

func agreementRouter(t *testing.T, debug bool) chi.Router {
	t.Helper()
	h := NewAgreementHandler(testLibrary(t), service.StyleManagement, debug)
	r := chi.NewRouter()
	r.Get("/v1/scopes", h.Scopes)
	r.Get("/v1/styles", h.Styles)
	r.Get("/v1/agreements", h.List)
	r.Get("/v1/agreements/{name}/inspect", h.Inspect)
	r.Get("/v1/agreements/{name}/context", h.Context)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestScopes_ReportAvailability(t *testing.T) {
	rr := get(agreementRouter(t, false), "/v1/scopes")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var scopes []model.ScopeInfo
	if err := json.NewDecoder(rr.Body).Decode(&scopes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scopes) != 2 {
		t.Fatalf("expected 2 scopes, got %d", len(scopes))
	}
	if !scopes[0].Available || scopes[0].Name != "local" {
		t.Errorf("local scope should be available: %+v", scopes[0])
	}
	if scopes[1].Available || len(scopes[1].Missing) != 1 || scopes[1].Missing[0] != "common" {
		t.Errorf("both scope should miss common: %+v", scopes[1])
	}
}

func TestStyles(t *testing.T) {
	rr := get(agreementRouter(t, false), "/v1/styles")
	var styles []model.StyleInfo
	if err := json.NewDecoder(rr.Body).Decode(&styles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(styles) != len(service.Styles) {
		t.Fatalf("expected %d styles, got %d", len(service.Styles), len(styles))
	}
	defaults := 0
	for _, s := range styles {
		if s.Description == "" {
			t.Errorf("style %q has no description", s.Name)
		}
		if s.Default {
			defaults++
			if s.Name != "management" {
				t.Errorf("unexpected default style %q", s.Name)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected one default style, got %d", defaults)
	}
}

func TestAgreements_ListAndInspect(t *testing.T) {
	r := agreementRouter(t, false)

	var reports []inspect.Report
	if err := json.NewDecoder(get(r, "/v1/agreements").Body).Decode(&reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 2 || !reports[0].Present || reports[1].Present {
		t.Errorf("unexpected reports: %+v", reports)
	}

	rr := get(r, "/v1/agreements/local/inspect")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var rep inspect.Report
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Source != "fallback" || rep.Leaves != 1 || len(rep.Missing) != 0 {
		t.Errorf("unexpected report: %+v", rep)
	}

	if rr := get(r, "/v1/agreements/nope/inspect"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown agreement: expected 404, got %d", rr.Code)
	}
}

func TestAgreements_Context(t *testing.T) {
	if rr := get(agreementRouter(t, false), "/v1/agreements/local/context"); rr.Code != http.StatusNotFound {
		t.Errorf("context must be hidden when debugging is disabled, got %d", rr.Code)
	}

	r := agreementRouter(t, true)
	rr := get(r, "/v1/agreements/local/context")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type: %q", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "=== LOCAL AGREEMENT ===") || !strings.Contains(body, "Burden of proof rests with the employer") {
		t.Errorf("unexpected context:\n%s", body)
	}

	if rr := get(r, "/v1/agreements/common/context"); rr.Code != http.StatusNotFound {
		t.Errorf("absent agreement: expected 404, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	store := session.NewStore(time.Hour)
	store.Create()

	rr := httptest.NewRecorder()
	Health(store)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["sessions"] != float64(1) {
		t.Errorf("unexpected health body: %v", body)
	}
}
