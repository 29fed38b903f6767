package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/rtlsim/sim"
)

// ActivationCounter is a hook that counts how many times each process is
// resumed.
type ActivationCounter struct {
	lock   sync.Mutex
	counts map[string]uint64
}

// NewActivationCounter creates an ActivationCounter.
func NewActivationCounter() *ActivationCounter {
	return &ActivationCounter{
		counts: make(map[string]uint64),
	}
}

// Func counts process resumptions.
func (c *ActivationCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeProcess {
		return
	}

	p, ok := ctx.Item.(sim.Process)
	if !ok {
		return
	}

	c.lock.Lock()
	c.counts[p.Name()]++
	c.lock.Unlock()
}

// Names returns the names of the processes seen, sorted.
func (c *ActivationCounter) Names() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	names := make([]string, 0, len(c.counts))
	for n := range c.counts {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Count returns the number of resumptions of a process.
func (c *ActivationCounter) Count(name string) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.counts[name]
}

// Total returns the number of resumptions of all processes.
func (c *ActivationCounter) Total() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	var total uint64
	for _, n := range c.counts {
		total += n
	}

	return total
}

var _ sim.Hook = (*ActivationCounter)(nil)
