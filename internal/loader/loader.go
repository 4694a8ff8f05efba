// Package loader reads agreement document sets from disk (and, for some sets,
// over HTTP) and merges their fragments into one document.
//
// Loading never fails loudly: a set that cannot be assembled comes back as an
// absent Result, and the caller decides what to offer the user.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"github.com/spf13/afero"
)

// DefaultRemoteTimeout bounds the remote fallback fetch.
const DefaultRemoteTimeout = 10 * time.Second

// DefaultMaxDocumentBytes caps a single file or HTTP body.
const DefaultMaxDocumentBytes int64 = 32 << 20

// ErrTooLarge is returned when a source exceeds the configured size cap.
var ErrTooLarge = errors.New("document exceeds size limit")

// ErrEmptyDocument is returned when a source parses to an object with no keys.
var ErrEmptyDocument = errors.New("document is empty")

// Source records where a merged document came from.
type Source string

const (
	SourceFragments Source = "fragments"
	SourceFallback  Source = "fallback"
	SourceRemote    Source = "remote"
	SourceNone      Source = "none"
)

// FragmentResult is the outcome of reading one fragment.
type FragmentResult struct {
	Locator string
	Keys    []string // top-level keys contributed, in order
	Err     error
}

// OK reports whether the fragment was read and parsed.
func (f FragmentResult) OK() bool { return f.Err == nil }

// Result is the outcome of loading one document set. Doc is nil when the set
// is absent.
type Result struct {
	Set         string
	Doc         *document.Mapping
	Source      Source
	Fragments   []FragmentResult
	FallbackErr error
	RemoteErr   error
	Duration    time.Duration
}

// Present reports whether a non-empty document was loaded.
func (r *Result) Present() bool {
	return r != nil && r.Doc.Len() > 0
}

// Loader loads document sets. Locators for fragments and fallbacks are paths
// within fs.
type Loader struct {
	fs       afero.Fs
	client   *http.Client
	maxBytes int64
}

// New creates a Loader reading from fs. remoteTimeout bounds remote fetches and
// maxBytes caps each source; zero values select the defaults.
func New(fs afero.Fs, remoteTimeout time.Duration, maxBytes int64) *Loader {
	if remoteTimeout <= 0 {
		remoteTimeout = DefaultRemoteTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &Loader{
		fs:       fs,
		maxBytes: maxBytes,
		client: &http.Client{
			Timeout: remoteTimeout,
		},
	}
}

// Load assembles the set: fragments first, then the fallback file, then the
// remote URL. Each tier is tried only when every earlier tier produced nothing.
func (l *Loader) Load(ctx context.Context, set agreement.Set) *Result {
	start := time.Now()
	res := &Result{Set: set.Name, Source: SourceNone}
	defer func() { res.Duration = time.Since(start) }()

	merged := document.NewMapping()
	for _, locator := range set.Fragments {
		frag, err := l.readFile(locator)
		if err != nil {
			slog.Warn("fragment skipped", "set", set.Name, "fragment", locator, "error", err)
			res.Fragments = append(res.Fragments, FragmentResult{Locator: locator, Err: err})
			continue
		}
		res.Fragments = append(res.Fragments, FragmentResult{Locator: locator, Keys: frag.Keys()})
		merged.Update(frag)
	}
	if merged.Len() > 0 {
		res.Doc = merged
		res.Source = SourceFragments
		return res
	}

	if set.Fallback != "" {
		doc, err := l.readFile(set.Fallback)
		if err == nil {
			res.Doc = doc
			res.Source = SourceFallback
			return res
		}
		res.FallbackErr = err
		slog.Warn("fallback unavailable", "set", set.Name, "fallback", set.Fallback, "error", err)
	}

	if set.RemoteURL != "" {
		doc, err := l.fetch(ctx, set.RemoteURL)
		if err == nil {
			res.Doc = doc
			res.Source = SourceRemote
			return res
		}
		res.RemoteErr = err
		slog.Warn("remote fetch failed", "set", set.Name, "url", set.RemoteURL, "error", err)
	}

	slog.Warn("document set unavailable", "set", set.Name)
	return res
}

func (l *Loader) readFile(locator string) (*document.Mapping, error) {
	f, err := l.fs.Open(locator)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", locator, err)
	}
	defer f.Close()

	doc, err := l.decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (*document.Mapping, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote returned %d", resp.StatusCode)
	}
	return l.decode(resp.Body)
}

// decode reads at most maxBytes from r and parses a non-empty JSON object.
func (l *Loader) decode(r io.Reader) (*document.Mapping, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrTooLarge
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	if doc.Len() == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}
