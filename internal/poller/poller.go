// Package poller tracks documents whose background processing is
// still in flight, re-checking their status on a timer and firing a
// single notification when each one reaches a terminal state.
//
// The contract is deliberately strict: an identifier enters the
// pending set once per upload, leaves it exactly once on the first
// terminal status observed, and is never re-added by the poller
// itself. A transient status-check failure keeps the identifier
// pending and is retried on the next tick without bothering the user.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hrnexus/hrnexus-cli/internal/api"
	"github.com/hrnexus/hrnexus-cli/internal/notify"
)

// StatusFunc queries the processing status of one document.
type StatusFunc func(ctx context.Context, id int) (api.ProcessingStatus, error)

// TerminalFunc is invoked once per document when it reaches a
// terminal status.
type TerminalFunc func(id int, name string, st api.ProcessingStatus)

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets a fixed-interval strategy: the first check and
// every re-check happen after d.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.initialDelay = d
		p.recheck = d
	}
}

// WithInitialDelay sets the delay before the first check, for the
// delayed-retry strategy where processing is known to take a while.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Poller) { p.initialDelay = d }
}

// WithRecheckInterval sets the delay between a finished batch of
// checks and the next one.
func WithRecheckInterval(d time.Duration) Option {
	return func(p *Poller) { p.recheck = d }
}

// WithOnCompleted registers a callback for successful processing.
func WithOnCompleted(fn TerminalFunc) Option {
	return func(p *Poller) { p.onCompleted = fn }
}

// WithOnFailed registers a callback for failed processing.
func WithOnFailed(fn TerminalFunc) Option {
	return func(p *Poller) { p.onFailed = fn }
}

// WithNotifier wires a notification sink. Completed documents produce
// a success notification, failed ones an error notification.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Poller) { p.notifier = n }
}

// WithLogger sets the poller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// Poller owns the pending set and the polling loop.
type Poller struct {
	status       StatusFunc
	initialDelay time.Duration
	recheck      time.Duration
	onCompleted  TerminalFunc
	onFailed     TerminalFunc
	notifier     notify.Notifier
	logger       *slog.Logger

	mu      sync.Mutex
	pending map[int]string // id -> display name
}

// New creates a poller. The default strategy is a fixed 5s interval.
func New(status StatusFunc, opts ...Option) *Poller {
	p := &Poller{
		status:       status,
		initialDelay: 5 * time.Second,
		recheck:      5 * time.Second,
		logger:       slog.Default(),
		pending:      make(map[int]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add registers a document as pending. Adding an id that is already
// pending is a no-op, so an upload can only enter the set once.
func (p *Poller) Add(id int, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pending[id]; ok {
		return
	}
	p.pending[id] = name
	p.logger.Debug("poller: tracking document", "id", id, "name", name)
}

// Len returns the number of pending documents.
func (p *Poller) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Pending returns the pending identifiers in ascending order.
func (p *Poller) Pending() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]int, 0, len(p.pending))
	for id := range p.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Resume checks the current status of already-known documents and
// registers those the backend still reports as in flight. This is how
// a fresh process picks up uploads from an earlier one: if the backend
// already flipped to terminal in the meantime, the document is not
// tracked and no notification fires.
func (p *Poller) Resume(ctx context.Context, docs []api.Document) (int, error) {
	added := 0
	for _, doc := range docs {
		if ctx.Err() != nil {
			return added, ctx.Err()
		}
		st, err := p.status(ctx, doc.ID)
		if err != nil {
			p.logger.Debug("poller: resume check failed", "id", doc.ID, "err", err)
			continue
		}
		if st.Terminal() || st.Status == api.StatusUnknown {
			continue
		}
		p.Add(doc.ID, doc.OriginalFilename)
		added++
	}
	return added, nil
}

// Run polls until the pending set drains or ctx is cancelled. The
// next batch of checks is scheduled only after the previous batch has
// fully completed, so ticks never overlap. Cancelling ctx stops all
// further checks immediately.
func (p *Poller) Run(ctx context.Context) error {
	delay := p.initialDelay
	for {
		if p.Len() == 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		p.tick(ctx)
		delay = p.recheck
	}
}

type checkResult struct {
	id     int
	name   string
	status api.ProcessingStatus
	err    error
}

// tick issues one bounded batch of status checks for the current
// pending snapshot and applies the outcomes. Checks within a batch
// are independent and unordered.
func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	snapshot := make(map[int]string, len(p.pending))
	for id, name := range p.pending {
		snapshot[id] = name
	}
	p.mu.Unlock()

	results := make(chan checkResult, len(snapshot))
	var wg sync.WaitGroup
	for id, name := range snapshot {
		wg.Add(1)
		go func(id int, name string) {
			defer wg.Done()
			st, err := p.status(ctx, id)
			results <- checkResult{id: id, name: name, status: st, err: err}
		}(id, name)
	}
	wg.Wait()
	close(results)

	for res := range results {
		p.apply(res)
	}
}

// apply handles one check outcome. Only a backend-reported terminal
// status removes the id; a failed check is swallowed and the id is
// retried next tick.
func (p *Poller) apply(res checkResult) {
	if res.err != nil {
		p.logger.Debug("poller: status check failed, will retry", "id", res.id, "err", res.err)
		return
	}
	if !res.status.Terminal() {
		return
	}

	p.mu.Lock()
	if _, ok := p.pending[res.id]; !ok {
		p.mu.Unlock()
		return
	}
	delete(p.pending, res.id)
	p.mu.Unlock()

	switch res.status.Status {
	case api.StatusCompleted:
		if p.notifier != nil {
			p.notifier.Notify(notify.Success, fmt.Sprintf("%s processed successfully", res.name))
		}
		if p.onCompleted != nil {
			p.onCompleted(res.id, res.name, res.status)
		}
	case api.StatusFailed:
		msg := fmt.Sprintf("%s processing failed", res.name)
		if res.status.Message != "" {
			msg = fmt.Sprintf("%s processing failed: %s", res.name, res.status.Message)
		}
		if p.notifier != nil {
			p.notifier.Notify(notify.Error, msg)
		}
		if p.onFailed != nil {
			p.onFailed(res.id, res.name, res.status)
		}
	}
}
