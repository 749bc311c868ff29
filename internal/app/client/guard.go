package client

// View paths the client navigates between.
const (
	RouteRoot   = "/"
	RouteLogin  = "/login"
	RouteLogout = "/logout"
)

// Decision is the outcome of a navigation check.
type Decision int

const (
	// Allowed lets the navigation proceed.
	Allowed Decision = iota
	// RedirectToLogin sends the user to the login view first.
	RedirectToLogin
	// RedirectToLogout sends an authenticated user to the logout view when
	// they try to reach a guest-only view.
	RedirectToLogout
)

func (d Decision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToLogout:
		return "redirect-to-logout"
	default:
		return "allowed"
	}
}

// route carries the auth markers of one view. A view holds at most one of
// the two markers.
type route struct {
	requiresAuth bool
	guestOnly    bool
}

// Guard intercepts navigation intents and checks them against the session.
// Unknown paths carry no markers and are always allowed.
type Guard struct {
	session *Session
	routes  map[string]route
}

func NewGuard(session *Session) *Guard {
	return &Guard{
		session: session,
		routes: map[string]route{
			RouteRoot:   {requiresAuth: true},
			RouteLogin:  {guestOnly: true},
			RouteLogout: {requiresAuth: true},
		},
	}
}

// Check evaluates a navigation to path. Redirect is the path to come back to
// after the detour; a login redirect triggered on the logout path falls back
// to the root so login cannot bounce straight back into logout.
func (g *Guard) Check(path string) (Decision, string) {
	r := g.routes[path]

	if r.requiresAuth && !g.session.IsLoggedIn() {
		redirect := path
		if path == RouteLogout {
			redirect = RouteRoot
		}
		return RedirectToLogin, redirect
	}

	if r.guestOnly && g.session.IsLoggedIn() {
		return RedirectToLogout, path
	}

	return Allowed, ""
}
