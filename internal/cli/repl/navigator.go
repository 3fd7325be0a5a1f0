package repl

import (
	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/core/service"
)

// Gate decides admission to a route. *service.RouteGuard satisfies it.
type Gate interface {
	Check(route domain.Route) service.Admission
}

// Navigator holds the current route and executes guard redirects.
type Navigator struct {
	gate      Gate
	current   domain.Route
	observers []func(from, to domain.Route)
}

// NewNavigator creates a Navigator positioned at start. The start route is
// not checked; callers open it when it needs guarding.
func NewNavigator(gate Gate, start domain.Route) *Navigator {
	return &Navigator{gate: gate, current: start}
}

// Current returns the current route.
func (n *Navigator) Current() domain.Route {
	return n.current
}

// OnChange registers fn to be called whenever the current route changes.
func (n *Navigator) OnChange(fn func(from, to domain.Route)) {
	n.observers = append(n.observers, fn)
}

// Open moves to route if the guard admits it, otherwise to the redirect the
// guard returned. The decision is returned so callers can report it.
func (n *Navigator) Open(route domain.Route) service.Admission {
	admission := n.gate.Check(route)
	if admission.Allowed {
		n.move(route)
	} else if admission.Redirect != "" {
		n.move(admission.Redirect)
	}
	return admission
}

// Follow applies a navigation intent. NavStay leaves the route unchanged.
func (n *Navigator) Follow(nav domain.Navigation) service.Admission {
	target := nav.Target()
	if target == "" {
		return service.Admission{Allowed: true}
	}
	return n.Open(target)
}

func (n *Navigator) move(to domain.Route) {
	from := n.current
	if from == to {
		return
	}
	n.current = to
	for _, fn := range n.observers {
		fn(from, to)
	}
}
