package client

// Access levels a route can require.
type Access int

const (
	// AccessPublic routes are open to everyone.
	AccessPublic Access = iota
	// AccessGuest routes (login, register) are for signed-out users only.
	AccessGuest
	// AccessUser routes need any signed-in account.
	AccessUser
	// AccessAdmin routes need the admin role.
	AccessAdmin
)

// Decision is the guard's verdict for a navigation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides route access from the session, mirroring the server's
// middleware so the UI never renders a page the API would reject.
type Guard struct {
	session *Session

	// Where to send rejected navigations.
	LoginPath string
	HomePath  string
}

func NewGuard(s *Session) *Guard {
	return &Guard{session: s, LoginPath: "/login", HomePath: "/"}
}

// Check returns the decision for a route requiring the given access.
func (g *Guard) Check(required Access) Decision {
	signedIn := g.session.State() == StateAuthenticated || g.session.State() == StateRefreshing

	var role string
	if u := g.session.User(); u != nil {
		role = u.Role
	}

	switch required {
	case AccessPublic:
		return Decision{Allow: true}

	case AccessGuest:
		if signedIn {
			return Decision{Allow: false, RedirectTo: g.HomePath}
		}
		return Decision{Allow: true}

	case AccessUser:
		if !signedIn {
			return Decision{Allow: false, RedirectTo: g.LoginPath}
		}
		return Decision{Allow: true}

	case AccessAdmin:
		if !signedIn {
			return Decision{Allow: false, RedirectTo: g.LoginPath}
		}
		if role != "ADMIN" {
			return Decision{Allow: false, RedirectTo: g.HomePath}
		}
		return Decision{Allow: true}
	}

	return Decision{Allow: false, RedirectTo: g.HomePath}
}
