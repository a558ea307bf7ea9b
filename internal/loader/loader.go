// Package loader reads GGUF files off the caller's goroutine. Each load runs
// on its own worker, streams the file into memory in chunks, decodes and
// projects the metadata, and publishes progress through a handle the caller
// polls without ever blocking.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/FerrisMind/inspector-gguf/internal/gguf"
	"github.com/FerrisMind/inspector-gguf/internal/humanize"
)

// ErrCancelled is the terminal error of a load abandoned via its context.
var ErrCancelled = errors.New("load cancelled")

const (
	chunkSize = 256 * 1024

	// The reading phase only republishes progress after publishInterval or
	// when the value moved by more than publishDelta, keeping lock traffic
	// low against the polling side.
	publishInterval = 50 * time.Millisecond
	publishDelta    = 0.01

	// progressFailed is the negative sentinel that terminates a load.
	progressFailed = float32(-1.0)
)

type State int

const (
	StateIdle State = iota
	StateOpening
	StateReading
	StateDecoding
	StateProjecting
	StateDone
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateReading:
		return "reading"
	case StateDecoding:
		return "decoding"
	case StateProjecting:
		return "projecting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of one load: the full ordered entry list, or the
// error that stopped it. There is no partial-success mode.
type Result struct {
	Entries []humanize.Entry
	Err     error
}

// Load is the handle to one background load. The worker is the sole writer
// of the shared cells; the polling caller is the sole reader.
type Load struct {
	path   string
	cancel context.CancelFunc

	mu       sync.Mutex
	progress float32
	state    State
	result   *Result
	taken    bool
}

// Start begins loading path on a new worker goroutine and returns
// immediately. Cancelling ctx abandons the load between phases; the handle's
// Cancel method does the same.
func Start(ctx context.Context, path string) *Load {
	ctx, cancel := context.WithCancel(ctx)
	l := &Load{path: path, cancel: cancel, state: StateOpening}
	go l.run(ctx)
	return l
}

// Path returns the file this load was started for.
func (l *Load) Path() string { return l.path }

// Cancel abandons the load. The worker notices between chunk reads and
// before the decode and projection phases; an already-terminal load is
// unaffected.
func (l *Load) Cancel() { l.cancel() }

// Progress is the non-blocking poll. ok is false when the lock is contended;
// the caller should reuse its last observed value for that tick. A negative
// progress means the load terminated without a result.
func (l *Load) Progress() (progress float32, state State, ok bool) {
	if !l.mu.TryLock() {
		return 0, StateIdle, false
	}
	defer l.mu.Unlock()
	return l.progress, l.state, true
}

// Status blocks briefly for the current progress and state. Intended for
// callers that are not latency-sensitive.
func (l *Load) Status() (float32, State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.progress, l.state
}

// Poll drains the result. It returns ok=false while the load is running,
// when the lock is contended, and on every call after the first successful
// drain: the result is consumed exactly once.
func (l *Load) Poll() (*Result, bool) {
	if !l.mu.TryLock() {
		return nil, false
	}
	defer l.mu.Unlock()
	if l.result == nil || l.taken {
		return nil, false
	}
	l.taken = true
	res := l.result
	l.result = nil
	return res, true
}

func (l *Load) publish(progress float32, state State) {
	l.mu.Lock()
	l.progress = progress
	l.state = state
	l.mu.Unlock()
}

// finish performs the single result write. The negative progress sentinel of
// a failure overrides whatever the reading phase last published.
func (l *Load) finish(state State, res *Result) {
	l.mu.Lock()
	l.state = state
	if res.Err != nil {
		l.progress = progressFailed
	} else {
		l.progress = 1.0
	}
	l.result = res
	l.mu.Unlock()
}

func (l *Load) fail(err error) {
	l.finish(StateFailed, &Result{Err: err})
}

func (l *Load) abandon() {
	l.finish(StateCancelled, &Result{Err: ErrCancelled})
}

func (l *Load) run(ctx context.Context) {
	defer l.cancel()

	l.publish(0.0, StateOpening)
	f, err := os.Open(l.path)
	if err != nil {
		l.fail(fmt.Errorf("open file: %w", err))
		return
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		l.fail(fmt.Errorf("query size of %s: %w", l.path, err))
		return
	}
	size := st.Size()

	l.publish(0.05, StateReading)

	buf := make([]byte, 0, size)
	chunk := make([]byte, chunkSize)
	var bytesRead int64
	lastPublish := time.Now()
	lastValue := float32(0.05)

	for {
		if ctx.Err() != nil {
			l.abandon()
			return
		}
		n, err := f.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			bytesRead += int64(n)
			if size > 0 {
				p := 0.05 + 0.75*float32(bytesRead)/float32(size)
				if p > 0.80 {
					p = 0.80
				}
				delta := p - lastValue
				if delta < 0 {
					delta = -delta
				}
				if time.Since(lastPublish) > publishInterval || delta > publishDelta {
					l.publish(p, StateReading)
					lastValue = p
					lastPublish = time.Now()
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			l.fail(fmt.Errorf("read %s: %w", l.path, err))
			return
		}
	}

	if ctx.Err() != nil {
		l.abandon()
		return
	}
	l.publish(0.85, StateDecoding)
	md, err := gguf.Decode(buf)
	if err != nil {
		l.fail(fmt.Errorf("parse %s: %w", l.path, err))
		return
	}

	if ctx.Err() != nil {
		l.abandon()
		return
	}
	l.publish(0.95, StateProjecting)
	entries := humanize.Entries(md.Header, md.KVs)

	l.finish(StateDone, &Result{Entries: entries})
}

// LoadFile is the synchronous variant used by callers that have no UI to
// keep responsive: whole-file read, decode, project.
func LoadFile(path string) ([]humanize.Entry, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	md, err := gguf.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return humanize.Entries(md.Header, md.KVs), nil
}
