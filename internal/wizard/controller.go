package wizard

import (
	"sync"

	"github.com/waritt/billsplit/internal/calculator"
)

// Controller drives one wizard session: it owns the current state and
// step, dispatches actions through the reducer, gates navigation, and
// recomputes splits on the results step.
//
// Every exported method takes the session lock, so a single controller
// can be driven from concurrent HTTP handlers; each call is atomic with
// respect to the others.
type Controller struct {
	mu    sync.Mutex
	state State
	step  Step
	calc  *calculator.Calculator
}

// NewController creates a controller at the first step with a fresh
// state, computing splits through calc.
func NewController(calc *calculator.Calculator) *Controller {
	return &Controller{
		state: NewState(),
		step:  stepOrder[0],
		calc:  calc,
	}
}

// State returns a snapshot of the current wizard state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneState(c.state)
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Dispatch runs an action through the reducer.
func (c *Controller) Dispatch(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(a)
}

// dispatch runs an action through the reducer with the lock held. While
// on the results step, any data change triggers a recomputation so the
// displayed splits never go stale.
func (c *Controller) dispatch(a Action) {
	c.state = Reduce(c.state, a)
	if _, isSet := a.(SetSplitResults); !isSet && c.step.IsTerminal() {
		c.recompute()
	}
}

// CanAdvance reports whether the current step's gate passes.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := gateFor(c.step)
	return !ok || g.check(c.state)
}

// Next advances one step if the current gate passes, returning whether
// the step changed. A failing gate surfaces its message via the toast
// signal instead of returning an error.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next()
}

func (c *Controller) next() bool {
	next, ok := StepAt(c.step.Index() + 1)
	if !ok {
		return false
	}
	if g, gated := gateFor(c.step); gated && !g.check(c.state) {
		c.state = Reduce(c.state, ShowToast{Message: g.message})
		return false
	}
	c.state = Reduce(c.state, ShowToast{})
	c.step = next
	if c.step.IsTerminal() {
		c.recompute()
	}
	return true
}

// Prev moves one step back. Backward navigation is never gated.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := StepAt(c.step.Index() - 1)
	if !ok {
		return false
	}
	c.step = prev
	return true
}

// GoTo jumps to target. Backward jumps to any earlier step are always
// permitted; forward jumps only one step at a time and only through a
// passing gate.
func (c *Controller) GoTo(target Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !target.IsValid() {
		return false
	}
	if target.Index() <= c.step.Index() {
		c.step = target
		return true
	}
	if target.Index() == c.step.Index()+1 {
		return c.next()
	}
	return false
}

// recompute is the only production point for split results: it runs the
// calculator on the current bill and stores the output. Callers hold
// the lock.
func (c *Controller) recompute() {
	bill := c.state.Bill
	results := c.calc.ComputeSplit(&bill)
	c.state = Reduce(c.state, SetSplitResults{Results: results})
}
