// Package content defines the static tables posts are composed from: topics with their
// context phrases and hashtags, topic-independent insights, and sentence templates.
// Tables are read-only after loading and safe for concurrent use.
package content

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// placeholders recognized in templates
const (
	PlaceholderTopic   = "{topic}"
	PlaceholderContext = "{context}"
	PlaceholderInsight = "{insight}"
	PlaceholderHashtag = "{hashtag}"
)

//go:embed defaults.yml
var defaultTables []byte

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// Tables holds all the content posts are built from
type Tables struct {
	Topics    []Topic  `yaml:"topics" json:"topics" jsonschema:"description=Topics with their context phrases and hashtags"`
	Insights  []string `yaml:"insights" json:"insights" jsonschema:"description=Topic-independent insights"`
	Templates []string `yaml:"templates" json:"templates" jsonschema:"description=Sentence templates with {topic} {context} {insight} {hashtag} placeholders"`
}

// Topic is a subject category with its own context phrases and hashtags
type Topic struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"required,description=Topic label"`
	Contexts []string `yaml:"contexts" json:"contexts" jsonschema:"required,description=Context phrases for this topic"`
	Hashtags []string `yaml:"hashtags" json:"hashtags" jsonschema:"required,description=Hashtags for this topic"`
}

// Default returns the built-in tables
func Default() (*Tables, error) {
	return Parse(defaultTables)
}

// Parse decodes tables from YAML and validates them
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse content tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate content tables: %w", err)
	}
	return &t, nil
}

// Validate checks every list is populated and every template resolves completely.
// Values may not contain braces, so a composed message never carries a placeholder-like token.
func (t *Tables) Validate() error {
	if len(t.Topics) == 0 {
		return fmt.Errorf("no topics defined")
	}
	if len(t.Insights) == 0 {
		return fmt.Errorf("no insights defined")
	}
	if len(t.Templates) == 0 {
		return fmt.Errorf("no templates defined")
	}

	seen := make(map[string]bool, len(t.Topics))
	for i, tp := range t.Topics {
		if strings.TrimSpace(tp.Name) == "" {
			return fmt.Errorf("topic #%d has no name", i)
		}
		if seen[tp.Name] {
			return fmt.Errorf("duplicate topic %q", tp.Name)
		}
		seen[tp.Name] = true
		if len(tp.Contexts) == 0 {
			return fmt.Errorf("topic %q has no context phrases", tp.Name)
		}
		if len(tp.Hashtags) == 0 {
			return fmt.Errorf("topic %q has no hashtags", tp.Name)
		}
		if err := checkValues("topic name", []string{tp.Name}); err != nil {
			return err
		}
		if err := checkValues(fmt.Sprintf("topic %q context", tp.Name), tp.Contexts); err != nil {
			return err
		}
		if err := checkValues(fmt.Sprintf("topic %q hashtag", tp.Name), tp.Hashtags); err != nil {
			return err
		}
	}
	if err := checkValues("insight", t.Insights); err != nil {
		return err
	}

	for i, tmpl := range t.Templates {
		if err := checkTemplate(tmpl); err != nil {
			return fmt.Errorf("template #%d: %w", i, err)
		}
	}
	return nil
}

// TopicNames returns topic labels in table order
func (t *Tables) TopicNames() []string {
	res := make([]string, 0, len(t.Topics))
	for _, tp := range t.Topics {
		res = append(res, tp.Name)
	}
	return res
}

// Topic returns the topic with the given name
func (t *Tables) Topic(name string) (Topic, bool) {
	for _, tp := range t.Topics {
		if tp.Name == name {
			return tp, true
		}
	}
	return Topic{}, false
}

func checkValues(kind string, values []string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty %s", kind)
		}
		if strings.ContainsAny(v, "{}") {
			return fmt.Errorf("%s %q contains braces", kind, v)
		}
	}
	return nil
}

func checkTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" {
		return fmt.Errorf("empty template")
	}
	for _, ph := range placeholderRe.FindAllString(tmpl, -1) {
		switch ph {
		case PlaceholderTopic, PlaceholderContext, PlaceholderInsight, PlaceholderHashtag:
		default:
			return fmt.Errorf("unknown placeholder %s in %q", ph, tmpl)
		}
	}
	if strings.ContainsAny(placeholderRe.ReplaceAllString(tmpl, ""), "{}") {
		return fmt.Errorf("unbalanced braces in %q", tmpl)
	}
	return nil
}
