package compiler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// Update describes the effect of one finished submission on a [Session].
type Update struct {
	// Result is the current good result after the update. It is the previous
	// result when the submission failed or was stale, and nil if no compile
	// has succeeded yet.
	Result *Result
	// Err is the error of this submission, if any.
	Err error
	Seq uint64
	// Changed reports whether the current code differs from the code before
	// the update.
	Changed bool
	// Stale reports that a newer submission was already accepted, so this
	// one was discarded.
	Stale bool
}

// State is a snapshot of a [Session].
type State struct {
	Updated time.Time
	Result  *Result
	Err     error
	ID      string
	Source  string
	Seq     uint64
}

// OK reports whether the latest accepted submission compiled successfully.
func (s State) OK() bool { return s.Err == nil && s.Result != nil }

// ErrorPosition returns the 1-based line and column of the latest accepted
// submission's error, if it carries a source interval.
func (s State) ErrorPosition() (line, col int, ok bool) {
	var lerr *lang.Error
	if !errors.As(s.Err, &lerr) {
		return 0, 0, false
	}

	iv, ok := lerr.Interval()
	if !ok {
		return 0, 0, false
	}

	line, col = iv.Position(s.Source)

	return line, col, true
}

// Session tracks the latest accepted compile of a changing source.
// A Session is safe for concurrent use.
type Session struct {
	opts  []Option
	o     options
	state State
	id    uuid.UUID
	next  atomic.Uint64
	mu    sync.RWMutex
}

// NewSession returns an empty Session. The options apply to every compile
// run by [Session.Submit].
func NewSession(opts ...Option) *Session {
	s := &Session{
		opts: opts,
		o:    applyOptions(opts...),
		id:   uuid.New(),
	}

	s.state.ID = s.id.String()
	s.o.logger = s.o.logger.With(slog.String("session", s.state.ID))

	return s
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string { return s.id.String() }

// Begin reserves the next sequence number for a compile that the caller runs
// itself and later reports with [Session.Finish].
func (s *Session) Begin() uint64 { return s.next.Add(1) }

// Submit compiles source and records the result.
// The returned error is the compile error, if any; it is also in the Update.
func (s *Session) Submit(ctx context.Context, source string) (Update, error) {
	seq := s.Begin()

	res, err := Compile(ctx, source, s.opts...)

	u := s.Finish(seq, source, res, err)

	return u, err
}

// Finish records the outcome of the compile of source that was assigned seq
// by [Session.Begin]. Outcomes older than the last accepted one are
// discarded.
func (s *Session) Finish(seq uint64, source string, res *Result, err error) Update {
	u := s.finish(seq, source, res, err)

	switch {
	case u.Stale:
		s.o.logger.Debug("discarded stale result", slog.Uint64("seq", seq))
	case u.Err != nil:
		s.o.logger.Warn("compile failed",
			slog.Uint64("seq", seq),
			slog.Any("error", u.Err),
		)
	default:
		s.o.logger.Info("compile succeeded",
			slog.Uint64("seq", seq),
			slog.Bool("changed", u.Changed),
			slog.Int("code_bytes", len(u.Result.Code)),
			log.Duration("elapsed", u.Result.Elapsed),
		)
	}

	if s.o.observer != nil {
		s.o.observer(u)
	}

	return u
}

func (s *Session) finish(seq uint64, source string, res *Result, err error) Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.state.Seq {
		return Update{Seq: seq, Result: s.state.Result, Err: err, Stale: true}
	}

	s.state.Seq = seq
	s.state.Source = source
	s.state.Updated = time.Now()

	if err == nil && res == nil {
		err = ErrCanceled
	}

	if err != nil {
		s.state.Err = err

		return Update{Seq: seq, Result: s.state.Result, Err: err}
	}

	prev := s.state.Result
	changed := prev == nil || prev.Hash != res.Hash || prev.Code != res.Code

	s.state.Result = res
	s.state.Err = nil

	return Update{Seq: seq, Result: res, Changed: changed}
}

// Current returns the last good result, or nil if none.
func (s *Session) Current() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Result
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}
