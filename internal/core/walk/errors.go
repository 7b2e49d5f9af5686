package walk

import (
	"context"
	"errors"
	"fmt"

	"sylwalk/internal/core/errs"
	perr "sylwalk/internal/platform/errors"
)

// ErrTerminal is returned by Step once a sampler has completed or failed
var ErrTerminal = errors.New("walk: sampler is in a terminal state")

// DeadEndError reports a walk state with no candidate under the profile
// Partial holds every step taken before the dead end
type DeadEndError struct {
	Partial  Walk
	Step     int
	Syllable int
	Text     string
}

func (e *DeadEndError) Error() string {
	return fmt.Sprintf("dead end at step %d: syllable %q (index %d) has no candidate within %d flips",
		e.Step, e.Text, e.Syllable, e.Partial.Profile.MaxFlips)
}

// Unwrap exposes the coded form
func (e *DeadEndError) Unwrap() error { return perr.DeadEndf("%s", e.Error()) }

// FailureKind classifies a per walk failure in a batch
type FailureKind string

const (
	KindDeadEnd  FailureKind = "dead_end"
	KindNotFound FailureKind = "not_found"
	KindConfig   FailureKind = "config"
	KindCanceled FailureKind = "canceled"
	KindInternal FailureKind = "internal"
)

// KindOf maps an engine error to its failure kind
func KindOf(err error) FailureKind {
	var (
		de *DeadEndError
		nf *errs.NotFoundError
		ce *errs.ConfigError
	)
	switch {
	case errors.As(err, &de):
		return KindDeadEnd
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &ce):
		return KindConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
