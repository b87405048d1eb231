// Package publisher composes a message and posts it through an authenticated client.
// Every failure stops at this boundary and is reported as an Outcome, never as a panic
// or an error bubbling up to the scheduler or the http handler.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tweetbot/pkg/twitter"
)

//go:generate moq -out mocks/poster.go -pkg mocks -skip-ensure -fmt goimports . Poster
//go:generate moq -out mocks/composer.go -pkg mocks -skip-ensure -fmt goimports . Composer

// ErrMissingCredentials is the reason of skipped publishing
var ErrMissingCredentials = errors.New("missing api credentials")

// Status of a publish attempt
type Status string

// enum of all statuses
const (
	StatusSkipped Status = "skipped"
	StatusPosted  Status = "posted"
	StatusFailed  Status = "failed"
	StatusDryRun  Status = "dry-run"
)

// Outcome describes what happened to a single publish attempt
type Outcome struct {
	Status  Status
	Text    string // composed message, empty if skipped
	TweetID string // empty for skipped, failed and dry runs
	Err     error  // reason for skipped and failed
}

// Posted is true for a successful attempt
func (o Outcome) Posted() bool { return o.Status == StatusPosted }

// Poster submits a message
type Poster interface {
	CreateTweet(ctx context.Context, text string) (*twitter.Tweet, error)
}

// Composer makes a message
type Composer interface {
	Compose() string
}

// PosterMaker makes a Poster from credentials
type PosterMaker func(creds twitter.Credentials) (Poster, error)

// Params for New
type Params struct {
	Credentials twitter.Credentials
	Composer    Composer
	PosterMaker PosterMaker
	Timeout     time.Duration // bounds a whole attempt, default 2m
	DryRun      bool          // compose and log, don't post
}

// Publisher posts composed messages
type Publisher struct {
	Params
}

// New makes a Publisher
func New(p Params) *Publisher {
	if p.Timeout <= 0 {
		p.Timeout = 2 * time.Minute
	}
	return &Publisher{Params: p}
}

// Configured reports whether credentials are complete
func (p *Publisher) Configured() bool {
	return p.Credentials.Complete()
}

// Publish composes a message and posts it. Safe for concurrent use, attempts are not serialized.
func (p *Publisher) Publish(ctx context.Context) (res Outcome) {
	if !p.Credentials.Complete() && !p.DryRun {
		lgr.Printf("[ERROR] skipping tweet, %v", ErrMissingCredentials)
		return Outcome{Status: StatusSkipped, Err: ErrMissingCredentials}
	}

	var text string
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			lgr.Printf("[ERROR] tweet failed, %v, text: %q", err, text)
			res = Outcome{Status: StatusFailed, Text: text, Err: err}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	text = p.Composer.Compose()
	if p.DryRun {
		lgr.Printf("[INFO] dry run, tweet not posted: %s", text)
		return Outcome{Status: StatusDryRun, Text: text}
	}

	poster, err := p.PosterMaker(p.Credentials)
	if err != nil {
		err = fmt.Errorf("make client: %w", err)
		lgr.Printf("[ERROR] tweet failed, %v", err)
		return Outcome{Status: StatusFailed, Text: text, Err: err}
	}

	tweet, err := poster.CreateTweet(ctx, text)
	if err != nil {
		lgr.Printf("[ERROR] tweet failed, %v, text: %q", err, text)
		return Outcome{Status: StatusFailed, Text: text, Err: err}
	}

	res = Outcome{Status: StatusPosted, Text: text}
	if tweet != nil {
		res.TweetID = tweet.ID
	}
	lgr.Printf("[INFO] tweet posted: %s", text)
	lgr.Printf("[DEBUG] tweet id %q", res.TweetID)
	return res
}
