package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/rtlsim/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string
	Name       string
	StartTime  time.Time
	Total      uint64
	Finished   uint64
	InProgress uint64
}

// ProgressBarStatus is a snapshot of a ProgressBar.
type ProgressBarStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// Status returns a consistent snapshot of the bar.
func (b *ProgressBar) Status() ProgressBarStatus {
	b.Lock()
	defer b.Unlock()

	return ProgressBarStatus{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// SetFinished sets the number of finished elements, capped at the total.
func (b *ProgressBar) SetFinished(finished uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished = min(finished, b.Total)
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// A TimeProgressHook moves a progress bar along with the simulation time. It
// is meant to be registered on an engine; the bar total is the number of
// time units the run covers.
type TimeProgressHook struct {
	bar *ProgressBar
}

// NewTimeProgressHook creates a TimeProgressHook that updates bar.
func NewTimeProgressHook(bar *ProgressBar) *TimeProgressHook {
	return &TimeProgressHook{bar: bar}
}

// Func updates the bar after every process resumption.
func (h *TimeProgressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterProcess {
		return
	}

	teller, ok := ctx.Domain.(sim.TimeTeller)
	if !ok {
		return
	}

	h.bar.SetFinished(uint64(teller.CurrentTime()))
}
