//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks

package sequence

// Observer receives every write to the State, as the pair of snapshots
// around it. Notifications are delivered outside the controller lock, so an
// observer may call Snapshot or Deactivate. Two writes due at the same
// instant on the wall clock may be delivered in either order; Version
// orders them.
type Observer interface {
	OnStateChange(prev, next State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(prev, next State)

// OnStateChange calls f.
func (f ObserverFunc) OnStateChange(prev, next State) { f(prev, next) }

// Observers fans a notification out to several observers in order.
type Observers []Observer

// OnStateChange forwards to every non-nil observer.
func (o Observers) OnStateChange(prev, next State) {
	for _, obs := range o {
		if obs != nil {
			obs.OnStateChange(prev, next)
		}
	}
}
