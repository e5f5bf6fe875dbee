package scan

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
	"github.com/m-mizutani/goerr/v2"
)

// Lifecycle states. These must remain untyped string constants for statekit.StateID
// compatibility and match the Status values.
const (
	stateQueued  = "queued"
	stateRunning = "running"
	stateDone    = "done"
	stateError   = "error"
)

// Lifecycle events.
const (
	eventBegin   = "begin"
	eventSucceed = "succeed"
	eventFail    = "fail"
)

func init() {
	stateMap := map[string]Status{
		stateQueued:  StatusQueued,
		stateRunning: StatusRunning,
		stateDone:    StatusDone,
		stateError:   StatusError,
	}
	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match Status %q", fsmState, status))
		}
	}
}

// eventFor maps a target status to the event that reaches it.
var eventFor = map[Status]string{
	StatusRunning: eventBegin,
	StatusDone:    eventSucceed,
	StatusError:   eventFail,
}

type lifecycleContext struct {
	ScanID string
}

// lifecycle tracks one scan through queued -> running -> done|error.
type lifecycle struct {
	id          string
	interpreter *statekit.Interpreter[lifecycleContext]
}

func newLifecycle(id string, initial Status) (*lifecycle, error) {
	builder := statekit.NewMachine[lifecycleContext]("scan-lifecycle").
		WithInitial(statekit.StateID(initial)).
		WithContext(lifecycleContext{ScanID: id})

	builder.State(stateQueued).
		On(eventBegin).Target(stateRunning).
		Done()

	builder.State(stateRunning).
		On(eventSucceed).Target(stateDone).
		On(eventFail).Target(stateError).
		Done()

	builder.State(stateDone).Done()
	builder.State(stateError).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build scan lifecycle", goerr.V("initial", initial))
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &lifecycle{id: id, interpreter: interpreter}, nil
}

// Send fires event and fails with ErrInvalidTransition when the state does not change.
func (l *lifecycle) Send(event string) error {
	before := l.Status()
	l.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if l.Status() != before {
		return nil
	}
	return goerr.Wrap(ErrInvalidTransition, "event not allowed",
		goerr.V("scan_id", l.id),
		goerr.V("event", event),
		goerr.V("status", before),
	)
}

func (l *lifecycle) Status() Status {
	return Status(l.interpreter.State().Value)
}

// CheckTransition reports whether a scan may move from one status to another.
func CheckTransition(from, to Status) error {
	event, ok := eventFor[to]
	if !ok || !from.Valid() {
		return goerr.Wrap(ErrInvalidTransition, "unknown status",
			goerr.V("from", from),
			goerr.V("to", to),
		)
	}

	l, err := newLifecycle("", from)
	if err != nil {
		return err
	}
	if err := l.Send(event); err != nil {
		return err
	}
	if l.Status() != to {
		return goerr.Wrap(ErrInvalidTransition, "unexpected status after transition",
			goerr.V("from", from),
			goerr.V("to", to),
			goerr.V("got", l.Status()),
		)
	}
	return nil
}
