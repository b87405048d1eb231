// Package composer builds post text from content tables by random selection and
// template substitution.
package composer

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/umputun/tweetbot/pkg/content"
)

// MaxLength is the longest message the composer produces, in characters (code points).
// Longer messages are cut to MaxLength-10 characters and get an ellipsis appended.
const MaxLength = 240

const ellipsis = "..."

// Rand is a source of random indexes, math/rand/v2 *rand.Rand satisfies it
type Rand interface {
	IntN(n int) int
}

// Composer makes messages from content tables. Safe for concurrent use.
type Composer struct {
	tables *content.Tables

	mu  sync.Mutex
	rnd Rand
}

// Draft is a composed message with the pieces it was built from
type Draft struct {
	Topic    string
	Context  string
	Insight  string
	Hashtag  string
	Template string
	Text     string
}

// Option configures Composer
type Option func(*Composer)

// WithRand sets the random source, used by tests to get reproducible output
func WithRand(r Rand) Option {
	return func(c *Composer) { c.rnd = r }
}

// New makes Composer for the given tables. Tables are expected to be validated.
func New(tables *content.Tables, opts ...Option) *Composer {
	c := &Composer{tables: tables, rnd: runtimeRand{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose returns a fresh message, never longer than MaxLength
func (c *Composer) Compose() string {
	return c.Draft().Text
}

// Draft picks a topic, then a context phrase and hashtag of that topic, an insight and a template,
// and renders them into a message.
func (c *Composer) Draft() Draft {
	c.mu.Lock()
	topic := c.tables.Topics[c.rnd.IntN(len(c.tables.Topics))]
	d := Draft{
		Topic:   topic.Name,
		Context: topic.Contexts[c.rnd.IntN(len(topic.Contexts))],
		Insight: c.tables.Insights[c.rnd.IntN(len(c.tables.Insights))],
	}
	d.Template = c.tables.Templates[c.rnd.IntN(len(c.tables.Templates))]
	d.Hashtag = topic.Hashtags[c.rnd.IntN(len(topic.Hashtags))]
	c.mu.Unlock()

	d.Text = Truncate(Render(d.Template, d.Topic, d.Context, d.Insight, d.Hashtag))
	return d
}

// Render substitutes placeholders of the template
func Render(template, topic, context, insight, hashtag string) string {
	r := strings.NewReplacer(
		content.PlaceholderTopic, topic,
		content.PlaceholderContext, context,
		content.PlaceholderInsight, insight,
		content.PlaceholderHashtag, hashtag,
	)
	return r.Replace(template)
}

// Truncate cuts messages longer than MaxLength
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxLength {
		return s
	}
	return string(runes[:MaxLength-10]) + ellipsis
}

// runtimeRand uses the auto-seeded top-level math/rand/v2 source
type runtimeRand struct{}

func (runtimeRand) IntN(n int) int { return rand.IntN(n) } //nolint:gosec // not security sensitive
