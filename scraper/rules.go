package scraper

import (
	"errors"
	"fmt"
	"os"

	"newsnotes/types"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Mode selects how a field value is read from its resolved element
type Mode string

const (
	// ModeText reads the trimmed text content
	ModeText Mode = "text"
	// ModeAttr reads a named attribute
	ModeAttr Mode = "attr"
)

// FieldRule resolves one field of a record. Path is a chain of
// "first descendant matching" steps starting at the record element.
type FieldRule struct {
	Name     string   `yaml:"name"`
	Path     []string `yaml:"path"`
	Mode     Mode     `yaml:"mode"`
	Attr     string   `yaml:"attr,omitempty"`
	Required bool     `yaml:"required,omitempty"`
}

// RuleSet maps repeating record containers to named fields. Supporting a
// different source site means supplying a different RuleSet.
type RuleSet struct {
	Name   string      `yaml:"name"`
	Record string      `yaml:"record"`
	Fields []FieldRule `yaml:"fields"`
}

// NPRRules extracts story teasers from the NPR news section index
var NPRRules = RuleSet{
	Name:   "npr",
	Record: "article.has-image",
	Fields: []FieldRule{
		{Name: types.FieldLink, Path: []string{"div.item-info", "h2.title", "a"}, Mode: ModeAttr, Attr: "href"},
		{Name: types.FieldImage, Path: []string{"div.imagewrap", "a", "img"}, Mode: ModeAttr, Attr: "src"},
		{Name: types.FieldTitle, Path: []string{"div.item-info", "h2.title", "a"}, Mode: ModeText},
		{Name: types.FieldCategory, Path: []string{"div.item-info", "h3.slug", "a"}, Mode: ModeText},
		{Name: types.FieldSummary, Path: []string{"div.item-info", "p.teaser", "a"}, Mode: ModeText},
	},
}

// Validate checks that every selector compiles and every rule is complete
func (r RuleSet) Validate() error {
	var errs []error
	if r.Record == "" {
		errs = append(errs, errors.New("record selector is empty"))
	} else if _, err := cascadia.Compile(r.Record); err != nil {
		errs = append(errs, fmt.Errorf("record selector %q: %w", r.Record, err))
	}
	if len(r.Fields) == 0 {
		errs = append(errs, errors.New("no field rules"))
	}

	seen := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		if f.Name == "" {
			errs = append(errs, errors.New("field rule without a name"))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("field %s: duplicate rule", f.Name))
		}
		seen[f.Name] = true

		if len(f.Path) == 0 {
			errs = append(errs, fmt.Errorf("field %s: empty path", f.Name))
		}
		for _, step := range f.Path {
			if _, err := cascadia.Compile(step); err != nil {
				errs = append(errs, fmt.Errorf("field %s: selector %q: %w", f.Name, step, err))
			}
		}
		switch f.Mode {
		case ModeText:
		case ModeAttr:
			if f.Attr == "" {
				errs = append(errs, fmt.Errorf("field %s: attr mode needs an attribute name", f.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("field %s: unknown mode %q", f.Name, f.Mode))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("rule set %s: %w", r.Name, errors.Join(errs...))
	}
	return nil
}

// LoadRuleSet reads and validates a rule set from a YAML file
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	var r RuleSet
	if err := yaml.Unmarshal(data, &r); err != nil {
		return RuleSet{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return RuleSet{}, err
	}
	return r, nil
}
