package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"golang.org/x/sync/singleflight"
)

// SetLoader loads a single document set.
type SetLoader interface {
	Load(ctx context.Context, set agreement.Set) *Result
}

// Library holds the loaded document sets for the life of the process. Each set
// is loaded at most once, absent results included, and is read-only afterwards.
type Library struct {
	catalog *agreement.Catalog
	loader  SetLoader

	group  singleflight.Group
	mu     sync.RWMutex
	loaded map[string]*Result
}

// NewLibrary creates a Library over the catalog's document sets.
func NewLibrary(catalog *agreement.Catalog, loader SetLoader) *Library {
	return &Library{
		catalog: catalog,
		loader:  loader,
		loaded:  make(map[string]*Result),
	}
}

// Catalog returns the catalog the library was built from.
func (lib *Library) Catalog() *agreement.Catalog {
	return lib.catalog
}

// Result returns the load result for the named set, loading it on first use.
// Concurrent first calls share one load.
func (lib *Library) Result(ctx context.Context, name string) (*Result, error) {
	lib.mu.RLock()
	res, ok := lib.loaded[name]
	lib.mu.RUnlock()
	if ok {
		return res, nil
	}

	set, ok := lib.catalog.Set(name)
	if !ok {
		return nil, fmt.Errorf("unknown document set %q", name)
	}

	v, _, _ := lib.group.Do(name, func() (interface{}, error) {
		lib.mu.RLock()
		cached, ok := lib.loaded[name]
		lib.mu.RUnlock()
		if ok {
			return cached, nil
		}

		// A cancelled request must not leave a half-loaded set cached as absent.
		r := lib.loader.Load(context.WithoutCancel(ctx), set)

		lib.mu.Lock()
		lib.loaded[name] = r
		lib.mu.Unlock()

		slog.Info("document set loaded",
			"set", name,
			"present", r.Present(),
			"source", r.Source,
			"sections", r.Doc.Len(),
			"duration_ms", r.Duration.Milliseconds(),
		)
		return r, nil
	})
	return v.(*Result), nil
}

// Document returns the merged document for the named set, or nil when the set
// is absent or unknown.
func (lib *Library) Document(ctx context.Context, name string) *document.Mapping {
	res, err := lib.Result(ctx, name)
	if err != nil || !res.Present() {
		return nil
	}
	return res.Doc
}

// Preload loads every catalog set, one after another.
func (lib *Library) Preload(ctx context.Context) {
	for _, s := range lib.catalog.Sets {
		_, _ = lib.Result(ctx, s.Name)
	}
}

// Missing returns the sets of the scope that are absent, in scope order. An
// empty result means the scope can be answered.
func (lib *Library) Missing(ctx context.Context, scope agreement.Scope) (missing []string) {
	for _, name := range scope.Sets {
		if lib.Document(ctx, name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}
