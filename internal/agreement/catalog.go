// Package agreement describes which collective agreements the assistant knows
// about: the document sets that make up each agreement, the citation family each
// belongs to, and the scopes a user can ask questions against.
package agreement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// MaxFragments is the largest number of fragment files a document set may list.
const MaxFragments = 9

// Family groups agreements that share a citation convention.
type Family struct {
	Name           string `yaml:"name" validate:"required"`
	AgreementType  string `yaml:"agreement_type" validate:"required"`
	CitationFormat string `yaml:"citation_format" validate:"required"`
}

// Set is one logical agreement document. Fragments are merged in the listed
// order; Fallback is a complete pre-merged copy used only when no fragment
// contributed anything; RemoteURL is tried last.
type Set struct {
	Name             string   `yaml:"name" validate:"required"`
	Label            string   `yaml:"label" validate:"required"`
	Family           string   `yaml:"family" validate:"required"`
	Fragments        []string `yaml:"fragments" validate:"max=9,dive,required"`
	Fallback         string   `yaml:"fallback"`
	RemoteURL        string   `yaml:"remote_url" validate:"omitempty,url"`
	ExpectedSections []string `yaml:"expected_sections"`
}

// HasSource reports whether the set names at least one place to load from.
func (s Set) HasSource() bool {
	return len(s.Fragments) > 0 || s.Fallback != "" || s.RemoteURL != ""
}

// Scope is a user-selectable combination of one or two sets. Sets are
// serialized in the listed order, local before common.
type Scope struct {
	Name   string   `yaml:"name" validate:"required"`
	Title  string   `yaml:"title" validate:"required"`
	Family string   `yaml:"family" validate:"required"`
	Sets   []string `yaml:"sets" validate:"min=1,max=2,dive,required"`
}

// Catalog is the full agreement configuration.
type Catalog struct {
	Families []Family `yaml:"families" validate:"min=1,dive"`
	Sets     []Set    `yaml:"sets" validate:"min=1,dive"`
	Scopes   []Scope  `yaml:"scopes" validate:"min=1,dive"`
}

var validate = validator.New()

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a YAML catalog from fs.
func LoadFile(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks field constraints and cross references between families,
// sets and scopes.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid catalog: %w", err)
	}

	families := make(map[string]bool, len(c.Families))
	for _, f := range c.Families {
		if families[f.Name] {
			return fmt.Errorf("duplicate family %q", f.Name)
		}
		families[f.Name] = true
	}

	sets := make(map[string]bool, len(c.Sets))
	for _, s := range c.Sets {
		if sets[s.Name] {
			return fmt.Errorf("duplicate document set %q", s.Name)
		}
		sets[s.Name] = true
		if !families[s.Family] {
			return fmt.Errorf("document set %q references unknown family %q", s.Name, s.Family)
		}
		if !s.HasSource() {
			return fmt.Errorf("document set %q has no fragments, fallback or remote URL", s.Name)
		}
	}

	scopes := make(map[string]bool, len(c.Scopes))
	for _, sc := range c.Scopes {
		if scopes[sc.Name] {
			return fmt.Errorf("duplicate scope %q", sc.Name)
		}
		scopes[sc.Name] = true
		if !families[sc.Family] {
			return fmt.Errorf("scope %q references unknown family %q", sc.Name, sc.Family)
		}
		for _, name := range sc.Sets {
			if !sets[name] {
				return fmt.Errorf("scope %q references unknown document set %q", sc.Name, name)
			}
		}
	}
	return nil
}

// Family returns the family with the given name.
func (c *Catalog) Family(name string) (Family, bool) {
	for _, f := range c.Families {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Set returns the document set with the given name.
func (c *Catalog) Set(name string) (Set, bool) {
	for _, s := range c.Sets {
		if s.Name == name {
			return s, true
		}
	}
	return Set{}, false
}

// Scope returns the scope with the given name.
func (c *Catalog) Scope(name string) (Scope, bool) {
	for _, sc := range c.Scopes {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scope{}, false
}

// Open returns the catalog at path, or the built-in catalog when path is
// empty. Either way the result has been validated.
func Open(fs afero.Fs, path string) (*Catalog, error) {
	if path != "" {
		return LoadFile(fs, path)
	}
	c := Default()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}
