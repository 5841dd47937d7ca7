package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPRRulesAreValid(t *testing.T) {
	require.NoError(t, NPRRules.Validate())
}

func TestRuleSetValidate(t *testing.T) {
	cases := []struct {
		name    string
		rules   RuleSet
		wantErr string
	}{
		{"empty record", RuleSet{Name: "x", Fields: []FieldRule{{Name: "t", Path: []string{"a"}, Mode: ModeText}}}, "record selector is empty"},
		{"bad record selector", RuleSet{Name: "x", Record: "div[", Fields: []FieldRule{{Name: "t", Path: []string{"a"}, Mode: ModeText}}}, "record selector"},
		{"no fields", RuleSet{Name: "x", Record: "div"}, "no field rules"},
		{"bad step", RuleSet{Name: "x", Record: "div", Fields: []FieldRule{{Name: "t", Path: []string{"a", "a["}, Mode: ModeText}}}, "field t: selector"},
		{"attr without name", RuleSet{Name: "x", Record: "div", Fields: []FieldRule{{Name: "l", Path: []string{"a"}, Mode: ModeAttr}}}, "needs an attribute name"},
		{"unknown mode", RuleSet{Name: "x", Record: "div", Fields: []FieldRule{{Name: "l", Path: []string{"a"}, Mode: "html"}}}, "unknown mode"},
		{"duplicate field", RuleSet{Name: "x", Record: "div", Fields: []FieldRule{
			{Name: "l", Path: []string{"a"}, Mode: ModeText},
			{Name: "l", Path: []string{"b"}, Mode: ModeText},
		}}, "duplicate rule"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.rules.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.wantErr)
		})
	}
}

func TestLoadRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yamlRules := `name: example
record: li.story
fields:
  - name: title
    path: ["h2", "a"]
    mode: text
    required: true
  - name: link
    path: ["h2", "a"]
    mode: attr
    attr: href
`
	require.NoError(t, os.WriteFile(path, []byte(yamlRules), 0o644))

	rules, err := LoadRuleSet(path)
	require.NoError(t, err)
	assert.Equal(t, "example", rules.Name)
	assert.Equal(t, "li.story", rules.Record)
	require.Len(t, rules.Fields, 2)
	assert.True(t, rules.Fields[0].Required)
	assert.Equal(t, ModeAttr, rules.Fields[1].Mode)
	assert.Equal(t, "href", rules.Fields[1].Attr)
}

func TestLoadRuleSet_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nrecord: ''\n"), 0o644))

	_, err := LoadRuleSet(path)
	assert.Error(t, err)

	_, err = LoadRuleSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
