// Package inspect reports on how a document set was assembled: which sources
// were used, which fragments failed, and whether the merged sections match
// what the catalog expects.
package inspect

import (
	"fmt"
	"log/slog"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/document"
	"github.com/16880444c/V4/internal/loader"
)

// Collision is a top-level key defined by more than one fragment. Only the
// last fragment's value survives the merge.
type Collision struct {
	Key       string   `json:"key"`
	Fragments []string `json:"fragments"`
}

// FragmentFailure is a fragment that could not be read or parsed.
type FragmentFailure struct {
	Locator string `json:"locator"`
	Error   string `json:"error"`
}

// Report describes one loaded document set.
type Report struct {
	Set         string            `json:"set"`
	Label       string            `json:"label"`
	Present     bool              `json:"present"`
	Source      loader.Source     `json:"source"`
	Sections    []string          `json:"sections"`
	Missing     []string          `json:"missing_sections,omitempty"`
	Unexpected  []string          `json:"unexpected_sections,omitempty"`
	Failed      []FragmentFailure `json:"failed_fragments,omitempty"`
	Collisions  []Collision       `json:"collisions,omitempty"`
	Leaves      int               `json:"leaves"`
	FallbackErr string            `json:"fallback_error,omitempty"`
	RemoteErr   string            `json:"remote_error,omitempty"`
	DurationMS  int64             `json:"duration_ms"`
}

// OK reports whether the set loaded with no discrepancies.
func (r Report) OK() bool {
	return r.Present && len(r.Missing) == 0 && len(r.Failed) == 0 && len(r.Collisions) == 0
}

// Problems lists each discrepancy as a short sentence.
func (r Report) Problems() []string {
	var out []string
	if !r.Present {
		out = append(out, "document set is unavailable")
	}
	for _, f := range r.Failed {
		out = append(out, fmt.Sprintf("fragment %s failed: %s", f.Locator, f.Error))
	}
	for _, s := range r.Missing {
		out = append(out, fmt.Sprintf("expected section %q is missing", s))
	}
	for _, c := range r.Collisions {
		out = append(out, fmt.Sprintf("section %q is defined by %d fragments, last one wins", c.Key, len(c.Fragments)))
	}
	return out
}

// Inspect builds a Report for set from its load result.
func Inspect(set agreement.Set, res *loader.Result) Report {
	rep := Report{
		Set:    set.Name,
		Label:  set.Label,
		Source: loader.SourceNone,
	}
	if res == nil {
		return rep
	}

	rep.Present = res.Present()
	rep.Source = res.Source
	rep.DurationMS = res.Duration.Milliseconds()
	if res.FallbackErr != nil {
		rep.FallbackErr = res.FallbackErr.Error()
	}
	if res.RemoteErr != nil {
		rep.RemoteErr = res.RemoteErr.Error()
	}

	for _, f := range res.Fragments {
		if !f.OK() {
			rep.Failed = append(rep.Failed, FragmentFailure{Locator: f.Locator, Error: f.Err.Error()})
		}
	}

	if res.Source == loader.SourceFragments {
		rep.Collisions = collisions(res.Fragments)
	}

	if !rep.Present {
		return rep
	}

	rep.Sections = res.Doc.Keys()
	rep.Missing, rep.Unexpected = compareSections(set.ExpectedSections, rep.Sections)

	document.Walk(res.Doc, func(v document.Value, _ int) bool {
		if _, ok := v.(document.Scalar); ok {
			rep.Leaves++
		}
		return true
	})
	return rep
}

// Log writes one WARN line per discrepancy in the report.
func Log(rep Report) {
	for _, p := range rep.Problems() {
		slog.Warn("agreement check", "set", rep.Set, "problem", p)
	}
}

func collisions(frags []loader.FragmentResult) []Collision {
	owners := make(map[string][]string)
	var order []string
	for _, f := range frags {
		for _, k := range f.Keys {
			if _, seen := owners[k]; !seen {
				order = append(order, k)
			}
			owners[k] = append(owners[k], f.Locator)
		}
	}

	var out []Collision
	for _, k := range order {
		if len(owners[k]) > 1 {
			out = append(out, Collision{Key: k, Fragments: owners[k]})
		}
	}
	return out
}

// compareSections returns expected sections not in got, and sections in got
// that were not expected. Nothing is unexpected when no sections are expected.
func compareSections(expected, got []string) (missing, unexpected []string) {
	if len(expected) == 0 {
		return nil, nil
	}
	have := make(map[string]bool, len(got))
	for _, s := range got {
		have[s] = true
	}
	want := make(map[string]bool, len(expected))
	for _, s := range expected {
		want[s] = true
		if !have[s] {
			missing = append(missing, s)
		}
	}
	for _, s := range got {
		if !want[s] {
			unexpected = append(unexpected, s)
		}
	}
	return missing, unexpected
}
