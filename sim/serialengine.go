package sim

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// procEntry is the engine-side record of a registered process.
type procEntry struct {
	proc  Process
	order int
	edges []Edge
	woken bool
}

type watch struct {
	entry *procEntry
	edge  Edge
}

// A SerialEngine runs processes one after another in a single goroutine.
//
// Each instant is processed in delta rounds. A round resumes every process
// woken at the instant, in registration order, then commits all the staged
// signal writes at once. Processes whose edges match a committed change are
// woken in the next round of the same instant. Once no round is left, the
// postponed processes of the instant run, and time advances to the next
// scheduled instant.
type SerialEngine struct {
	*HookableBase

	timeLock sync.RWMutex
	now      VTime
	delta    uint64

	queue          *wakeQueue
	postponedQueue *wakeQueue

	procs       []*procEntry
	watchers    map[Signal][]watch
	staged      []Signal
	inPostponed bool

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase:   NewHookableBase(),
		queue:          newWakeQueue(),
		postponedQueue: newWakeQueue(),
		watchers:       make(map[Signal][]watch),
	}
}

// Spawn registers a process and schedules its first resumption.
func (e *SerialEngine) Spawn(p Process, first Suspension) {
	if p == nil {
		log.Panic("sim: cannot spawn a nil process")
	}

	for _, entry := range e.procs {
		if entry.proc == p {
			log.Panicf("sim: process %s spawned twice", p.Name())
		}
	}

	entry := &procEntry{proc: p, order: len(e.procs)}
	e.procs = append(e.procs, entry)

	e.suspend(entry, first)
}

// Stage records that s has a pending write to commit at the end of the round.
func (e *SerialEngine) Stage(s Signal) {
	e.staged = append(e.staged, s)
}

func (e *SerialEngine) readNow() VTime {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTime) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// CurrentTime returns the instant the engine is at.
func (e *SerialEngine) CurrentTime() VTime {
	return e.readNow()
}

// DeltaCount returns the number of delta rounds run so far.
func (e *SerialEngine) DeltaCount() uint64 {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.delta
}

// RunFor processes every instant in [now, now+d) and then moves the current
// time to now+d.
func (e *SerialEngine) RunFor(d VTime) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	end := e.readNow() + d
	for {
		t, ok := e.nextInstant()
		if !ok || t >= end {
			break
		}

		if err := e.runInstant(t); err != nil {
			return err
		}
	}

	e.writeNow(end)

	return nil
}

// RunSteps processes the next n instants that have processes to wake. It stops
// early if nothing is scheduled.
func (e *SerialEngine) RunSteps(n int) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for i := 0; i < n; i++ {
		t, ok := e.nextInstant()
		if !ok {
			return nil
		}

		if err := e.runInstant(t); err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) nextInstant() (VTime, bool) {
	primary := e.queue.Peek()
	postponed := e.postponedQueue.Peek()

	switch {
	case primary == nil && postponed == nil:
		return 0, false
	case primary == nil:
		return postponed.time, true
	case postponed == nil:
		return primary.time, true
	case primary.time <= postponed.time:
		return primary.time, true
	default:
		return postponed.time, true
	}
}

func (e *SerialEngine) runInstant(t VTime) error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	now := e.readNow()
	if t < now {
		log.Panicf("sim: cannot run instant %d in the past, now %d", t, now)
	}

	e.writeNow(t)

	for {
		batch := e.queue.PopAt(t)
		if len(batch) == 0 && len(e.staged) == 0 {
			break
		}

		if err := e.runBatch(t, batch); err != nil {
			return err
		}

		e.commit(t)

		e.timeLock.Lock()
		e.delta++
		e.timeLock.Unlock()
	}

	batch := e.postponedQueue.PopAt(t)
	if len(batch) == 0 {
		return nil
	}

	e.inPostponed = true
	defer func() { e.inPostponed = false }()

	return e.runBatch(t, batch)
}

func (e *SerialEngine) runBatch(now VTime, batch []*wakeEvent) error {
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].entry.order < batch[j].entry.order
	})

	for _, evt := range batch {
		entry := evt.entry

		hookCtx := HookCtx{
			Domain: e,
			Pos:    HookPosBeforeProcess,
			Item:   entry.proc,
		}
		e.InvokeHook(hookCtx)

		next, err := entry.proc.Resume(now)

		hookCtx.Pos = HookPosAfterProcess
		e.InvokeHook(hookCtx)

		if err != nil {
			return errors.Wrapf(err, "process %s failed at time %d",
				entry.proc.Name(), now)
		}

		if e.inPostponed && len(e.staged) > 0 {
			return errors.Wrapf(ErrPostponedWrite, "process %s at time %d",
				entry.proc.Name(), now)
		}

		e.suspend(entry, next)
	}

	return nil
}

func (e *SerialEngine) suspend(entry *procEntry, s Suspension) {
	switch s.kind {
	case suspendDone:
		return
	case suspendEdge:
		entry.edges = s.edges
		for _, edge := range s.edges {
			e.watchers[edge.Signal] = append(e.watchers[edge.Signal],
				watch{entry: entry, edge: edge})
		}
	case suspendDelay:
		if e.inPostponed && s.delay == 0 {
			log.Panicf("sim: postponed process %s cannot wait zero time",
				entry.proc.Name())
		}

		wakeAt := e.readNow() + s.delay
		if s.postponed {
			e.postponedQueue.Push(wakeAt, entry)
			return
		}

		e.queue.Push(wakeAt, entry)
	}
}

// commit promotes every staged write and wakes the processes whose edges
// match the committed changes.
func (e *SerialEngine) commit(now VTime) {
	staged := e.staged
	e.staged = nil

	var woken []*procEntry

	for _, s := range staged {
		if !s.commit() {
			continue
		}

		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosSignalCommit,
			Item:   s,
			Detail: CommitDetail{Time: now, Delta: e.delta},
		})

		for _, w := range e.watchers[s] {
			if w.entry.woken || !w.edge.matches() {
				continue
			}

			w.entry.woken = true
			woken = append(woken, w.entry)
		}
	}

	sort.Slice(woken, func(i, j int) bool {
		return woken[i].order < woken[j].order
	})

	for _, entry := range woken {
		e.unwatch(entry)
		entry.woken = false
		e.queue.Push(now, entry)
	}
}

func (e *SerialEngine) unwatch(entry *procEntry) {
	for _, edge := range entry.edges {
		list := e.watchers[edge.Signal]
		kept := list[:0]

		for _, w := range list {
			if w.entry != entry {
				kept = append(kept, w)
			}
		}

		if len(kept) == 0 {
			delete(e.watchers, edge.Signal)
			continue
		}

		e.watchers[edge.Signal] = kept
	}

	entry.edges = nil
}

// Pause prevents the SerialEngine from processing more instants.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to process instants again.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// IsPaused tells if Pause was called without a matching Continue.
func (e *SerialEngine) IsPaused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

// RegisterSimulationEndHandler registers a handler to call in Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}

var _ Engine = (*SerialEngine)(nil)
