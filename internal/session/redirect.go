package session

// Paths reachable without a session.
const (
	RootPath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// PublicPaths is the default set of paths a 401 never redirects away from.
var PublicPaths = []string{RootPath, LoginPath, RegisterPath}

// Navigator is implemented by whatever owns the current screen.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Redirector sends the user to the login screen when the backend reports an
// expired session, unless they are already on a public path.
type Redirector struct {
	nav    Navigator
	public map[string]struct{}
}

// NewRedirector builds a redirector. With no paths given, PublicPaths is used.
// Paths are matched by exact string equality.
func NewRedirector(nav Navigator, public ...string) *Redirector {
	if len(public) == 0 {
		public = PublicPaths
	}
	r := &Redirector{nav: nav, public: make(map[string]struct{}, len(public))}
	for _, p := range public {
		r.public[p] = struct{}{}
	}
	return r
}

// IsPublic reports whether path is exactly one of the public paths.
func (r *Redirector) IsPublic(path string) bool {
	_, ok := r.public[path]
	return ok
}

// HandleUnauthorized is installed as the API client's 401 hook.
func (r *Redirector) HandleUnauthorized() {
	if r.IsPublic(r.nav.CurrentPath()) {
		return
	}
	r.nav.Navigate(LoginPath)
}
