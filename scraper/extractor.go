package scraper

import (
	"context"
	"iter"
	"log/slog"
	"strings"
)

// Candidate is one extracted record before it becomes an article.
// A nil field value means the field's selector chain did not resolve.
type Candidate struct {
	Index  int
	Fields map[string]*string
	Misses []string
	// MissingRequired lists misses of fields whose rule is marked required
	MissingRequired []string
}

// Get returns the value of a field, nil when missing
func (c Candidate) Get(name string) *string {
	return c.Fields[name]
}

// Empty reports whether no field resolved
func (c Candidate) Empty() bool {
	for _, v := range c.Fields {
		if v != nil {
			return false
		}
	}
	return true
}

// Extract applies rules to the tree. Records are yielded in document order,
// one per element matching the record selector. A field whose chain does not
// resolve is left nil and listed in Misses; the record is still yielded.
func Extract(root Element, rules RuleSet, logger *slog.Logger) iter.Seq[Candidate] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(yield func(Candidate) bool) {
		for i, rec := range root.FindAll(rules.Record) {
			c := Candidate{Index: i, Fields: make(map[string]*string, len(rules.Fields))}
			for _, f := range rules.Fields {
				v, ok := resolve(rec, f)
				if !ok {
					c.Misses = append(c.Misses, f.Name)
					if f.Required {
						c.MissingRequired = append(c.MissingRequired, f.Name)
					}
					logger.Debug("field did not resolve", "rules", rules.Name, "record", i, "field", f.Name)
				}
				c.Fields[f.Name] = v
			}
			if !yield(c) {
				return
			}
		}
	}
}

func resolve(rec Element, f FieldRule) (*string, bool) {
	el := rec
	for _, step := range f.Path {
		next, ok := el.First(step)
		if !ok {
			return nil, false
		}
		el = next
	}

	switch f.Mode {
	case ModeAttr:
		v, ok := el.Attr(f.Attr)
		if !ok {
			return nil, false
		}
		v = strings.TrimSpace(v)
		return &v, true
	default:
		v := strings.TrimSpace(el.Text())
		return &v, true
	}
}

// HTMLExtractor parses an HTML document and applies a rule set to it
type HTMLExtractor struct {
	Rules  RuleSet
	Logger *slog.Logger
}

// NewHTMLExtractor validates rules and returns an extractor for them
func NewHTMLExtractor(rules RuleSet, logger *slog.Logger) (*HTMLExtractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &HTMLExtractor{Rules: rules, Logger: logger}, nil
}

// Extract parses doc and returns its candidate records
func (h *HTMLExtractor) Extract(ctx context.Context, doc *Document) (iter.Seq[Candidate], error) {
	root, err := Parse(doc.Body)
	if err != nil {
		return nil, err
	}
	return Extract(root, h.Rules, h.Logger), nil
}
