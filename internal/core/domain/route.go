package domain

// Route names a view of the client.
type Route string

// Known routes.
const (
	RouteHome         Route = "/"
	RouteLogin        Route = "/login"
	RouteSignup       Route = "/signup"
	RoutePersonalInfo Route = "/personal-info"
)

// Routes lists every known route.
var Routes = []Route{RouteHome, RouteLogin, RouteSignup, RoutePersonalInfo}

// Protected reports whether entering the route requires a session.
func (r Route) Protected() bool {
	return r == RoutePersonalInfo
}

// Known reports whether r is one of Routes.
func (r Route) Known() bool {
	for _, k := range Routes {
		if k == r {
			return true
		}
	}
	return false
}

// ParseRoute normalises user input such as "login" or "/login".
func ParseRoute(s string) Route {
	if s == "" {
		return RouteHome
	}
	if s[0] != '/' {
		s = "/" + s
	}
	return Route(s)
}

// Navigation is the intent an operation hands back to the view layer.
type Navigation int

// Navigation intents.
const (
	NavStay Navigation = iota
	NavGoProtected
	NavGoLogin
)

// Target returns the route to move to, or "" for NavStay.
func (n Navigation) Target() Route {
	switch n {
	case NavGoProtected:
		return RoutePersonalInfo
	case NavGoLogin:
		return RouteLogin
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (n Navigation) String() string {
	switch n {
	case NavGoProtected:
		return "go-protected"
	case NavGoLogin:
		return "go-login"
	default:
		return "stay"
	}
}
