package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/model"
	"github.com/google/uuid"
)

// ErrBusy is returned by Controller.Submit while a request is in flight.
var ErrBusy = errors.New("sync already in progress")

// Syncer issues the ingestion request. Satisfied by *fetch.Client.
type Syncer interface {
	SyncSteam(ctx context.Context, appID string) (model.Game, error)
}

// Refresher reloads the collection. Satisfied by *catalog.Store.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Controller runs the sync workflow synchronously against a Syncer and a
// Refresher. Safe for concurrent use; a second Submit while one is in
// flight returns ErrBusy without touching the network.
type Controller struct {
	syncer    Syncer
	refresher Refresher

	mu       sync.Mutex
	m        Machine
	onChange func(Machine)
}

// NewController creates a Controller in the Idle state.
func NewController(syncer Syncer, refresher Refresher) *Controller {
	return &Controller{syncer: syncer, refresher: refresher}
}

// OnChange registers fn to observe every state change. fn must not call
// back into the Controller.
func (c *Controller) OnChange(fn func(Machine)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Machine returns the current workflow state.
func (c *Controller) Machine() Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m
}

// Edit sets the raw input text.
func (c *Controller) Edit(input string) {
	c.step(Edit{Input: input})
}

// Submit validates the current input, performs the request, triggers a
// refresh on success and returns to Idle. It returns the surfaced message
// and, on failure, the underlying error.
func (c *Controller) Submit(ctx context.Context) (Message, error) {
	m, _ := c.step(Submit{})
	if m.State != Validating {
		return m.Message, ErrBusy
	}

	m, effects := c.step(Validate{})
	if m.State != Requesting {
		_, err := ValidateInput(m.Input)
		logging.Info("Sync rejected", "input", m.Input, "reason", m.Message.Text)
		return m.Message, err
	}

	var failure error
	for len(effects) > 0 {
		var next []Effect
		for _, eff := range effects {
			switch eff := eff.(type) {
			case Request:
				attempt := uuid.NewString()
				logging.Info("Sync requested", "appid", eff.AppID, "attempt", attempt)

				g, err := c.syncer.SyncSteam(fetch.WithRequestID(ctx, attempt), eff.AppID)
				if err != nil {
					failure = err
					logging.Warn("Sync failed", "appid", eff.AppID, "attempt", attempt, "error", err)
				}
				var more []Effect
				m, more = c.step(Completed{Game: g, Err: err})
				next = append(next, more...)

			case Refresh:
				if c.refresher == nil {
					continue
				}
				// The refresher records its own failures; the sync outcome stands.
				if err := c.refresher.Refresh(ctx); err != nil {
					logging.Warn("Refresh after sync failed", "error", err)
				}
			}
		}
		effects = next
	}

	m, _ = c.step(Settle{})
	return m.Message, failure
}

func (c *Controller) step(ev Event) (Machine, []Effect) {
	c.mu.Lock()
	prev := c.m
	next, effects := c.m.Transition(ev)
	c.m = next
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil && next != prev {
		fn(next)
	}
	return next, effects
}
