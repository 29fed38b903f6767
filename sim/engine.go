package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// An Engine drives registered processes through logical time, committing
// staged signal writes between delta rounds.
type Engine interface {
	Hookable
	TimeTeller
	Stager

	// Spawn registers a process. The first suspension tells when the process
	// runs for the first time. Registration order breaks ties between
	// processes woken at the same time.
	Spawn(p Process, first Suspension)

	// RunFor processes every instant in [now, now+d) and leaves the current
	// time at now+d.
	RunFor(d VTime) error

	// RunSteps processes the next n instants that have something scheduled.
	RunSteps(n int) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
