package reconcile

import "time"

// Stats counts what one Render call did.
type Stats struct {
	Created          int `json:"created"`          // live nodes created
	Inserted         int `json:"inserted"`         // subtrees inserted
	Removed          int `json:"removed"`          // subtrees removed
	Moved            int `json:"moved"`            // keyed nodes moved
	Replaced         int `json:"replaced"`         // subtrees rebuilt on tag change
	TextUpdates      int `json:"textUpdates"`      // text contents rewritten
	AttrsSet         int `json:"attrsSet"`         // attributes written
	AttrsRemoved     int `json:"attrsRemoved"`     // attributes removed
	PropsWritten     int `json:"propsWritten"`     // controlled properties written
	ListenersAdded   int `json:"listenersAdded"`   // surface listeners registered
	ListenersRemoved int `json:"listenersRemoved"` // surface listeners removed
	HandlersRebound  int `json:"handlersRebound"`  // handler table entries swapped
	Skipped          int `json:"skipped"`          // identical VNodes skipped
	Errors           int `json:"errors"`           // reported failures
}

// Mutations returns the number of surface changes counted in s. Appends of
// children into a freshly created subtree are covered by Created.
func (s Stats) Mutations() int {
	return s.Created + s.Inserted + s.Removed + s.Moved + s.TextUpdates +
		s.AttrsSet + s.AttrsRemoved + s.PropsWritten + s.ListenersAdded + s.ListenersRemoved
}

// Observer receives a summary after every Render.
type Observer interface {
	ObserveRender(stats Stats, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stats Stats, elapsed time.Duration, err error)

// ObserveRender implements Observer.
func (f ObserverFunc) ObserveRender(stats Stats, elapsed time.Duration, err error) {
	f(stats, elapsed, err)
}
