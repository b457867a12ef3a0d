// Package timeparse turns user supplied show start times into UTC instants.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrUnrecognized = errors.New("unrecognized time format")

// Layouts tried before falling back to natural language.
var Layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Clock abstracts time.Now for services and tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

type Parser struct {
	w   *when.Parser
	loc *time.Location
}

// New returns a parser that reads zone-less layouts in loc (UTC when nil).
func New(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, loc: loc}
}

// Parse accepts one of Layouts or an English phrase such as
// "next friday at 8pm", resolved relative to now. The result is in UTC.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty start time: %w", ErrUnrecognized)
	}

	for _, layout := range Layouts {
		if t, err := time.ParseInLocation(layout, input, p.loc); err == nil {
			return t.UTC(), nil
		}
	}

	r, err := p.w.Parse(strings.ToLower(input), now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%q: %w", input, ErrUnrecognized)
	}
	return r.Time.UTC(), nil
}
