package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/middleware"
	"github.com/xy-planning-network/gatehouse/http/req"
	"github.com/xy-planning-network/gatehouse/http/resp"
	"github.com/xy-planning-network/gatehouse/http/router"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/logger"
	"github.com/xy-planning-network/gatehouse/provider"
)

const (
	dashboardPath = "/dashboard"
	loginPath     = "/login"
	logoffPath    = "/logoff"
	signupPath    = "/signup"

	dashboardTmpl = "tmpl/dashboard.tmpl"
	homeTmpl      = "tmpl/home.tmpl"
	loginTmpl     = "tmpl/login.tmpl"
	signupTmpl    = "tmpl/signup.tmpl"
)

// credentials is the one form the app accepts,
// shared by the login and signup pages.
//
// Password rules live with the provider; only presence is checked here.
type credentials struct {
	Email    string `json:"email" schema:"email" validate:"required,email"`
	Password string `json:"password" schema:"password" validate:"required"`
}

// An App collects the components the page handlers respond to HTTP requests with.
type App struct {
	*resp.Responder

	l      logger.Logger
	oracle provider.Service
	parser *req.Parser
}

// NewApp constructs an App from the components a warden.Warden emits.
func NewApp(d *resp.Responder, oracle provider.Service, l logger.Logger) *App {
	if l == nil {
		l = logger.New()
	}

	return &App{
		Responder: d,
		l:         l,
		oracle:    oracle,
		parser:    req.NewParser(),
	}
}

// RegisterRoutes applies the app's route table to the *router.Router.
//
// "/" is neutral; the login and signup pages require an anonymous session;
// the dashboard and logoff require an authenticated one.
func (a *App) RegisterRoutes(r *router.Router) {
	r.Handle(router.Route{Path: "/", Method: http.MethodGet, Handler: a.Home})

	// NOTE(dlk): API clients can replay-protect the credential-mutation
	// POSTs with an Idempotency-Key header; browser form posts pass through.
	idem := middleware.Idempotent(middleware.NewIdemResMap(), nil)

	r.UnauthedRoutes([]router.Route{
		{Path: loginPath, Method: http.MethodGet, Handler: a.ShowLogin},
		{Path: loginPath, Method: http.MethodPost, Handler: a.LogIn, Middlewares: []middleware.Adapter{idem}},
		{Path: signupPath, Method: http.MethodGet, Handler: a.ShowSignup},
		{Path: signupPath, Method: http.MethodPost, Handler: a.SignUp, Middlewares: []middleware.Adapter{idem}},
	})

	r.AuthedRoutes(loginPath, logoffPath, []router.Route{
		{Path: dashboardPath, Method: http.MethodGet, Handler: a.Dashboard},
		{Path: logoffPath, Method: http.MethodGet, Handler: a.LogOff},
	})
}

// Home renders the landing page for everyone,
// picking the layout off whether the session vouched for a user.
func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	fns := []resp.Fn{resp.Unauthed(), resp.Tmpls(homeTmpl)}
	if _, err := a.CurrentUser(r.Context()); err == nil {
		fns = []resp.Fn{resp.Authed(), resp.Tmpls(homeTmpl)}
	}

	a.html(w, r, fns...)
}

// ShowLogin renders the login form.
func (a *App) ShowLogin(w http.ResponseWriter, r *http.Request) {
	a.html(w, r, resp.Unauthed(), resp.Tmpls(loginTmpl), resp.Data(nextParam(r)))
}

// LogIn exchanges the form's email & password with the provider for
// credential material, stashes it in the session, and moves the user along.
//
// A rejection sends the user back to the form with the provider's
// explanation, word for word.
func (a *App) LogIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := a.parseCredentials(w, r, loginPath)
	if !ok {
		return
	}

	t, err := a.oracle.LogIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		a.redirectRejected(w, r, err, loginPath)
		return
	}

	s, err := a.Session(r.Context())
	if err != nil {
		a.Err(w, r, err)
		return
	}

	if err := s.RegisterTokens(w, r, t); err != nil {
		a.Err(w, r, err)
		return
	}

	dest := dashboardPath
	if next := nextParam(r); next != "" {
		dest = next
	}

	a.redirect(w, r, resp.Url(dest))
}

// ShowSignup renders the signup form.
func (a *App) ShowSignup(w http.ResponseWriter, r *http.Request) {
	a.html(w, r, resp.Unauthed(), resp.Tmpls(signupTmpl), resp.Data(nextParam(r)))
}

// SignUp creates an account with the provider and immediately logs it in,
// so a fresh signup lands on the dashboard with a live session.
func (a *App) SignUp(w http.ResponseWriter, r *http.Request) {
	creds, ok := a.parseCredentials(w, r, signupPath)
	if !ok {
		return
	}

	if _, err := a.oracle.SignUp(r.Context(), creds.Email, creds.Password); err != nil {
		a.redirectRejected(w, r, err, signupPath)
		return
	}

	t, err := a.oracle.LogIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		// NOTE(dlk): the account exists but its first login failed;
		// the login page is the right place to retry from.
		a.redirectRejected(w, r, err, loginPath)
		return
	}

	s, err := a.Session(r.Context())
	if err != nil {
		a.Err(w, r, err)
		return
	}

	if err := s.RegisterTokens(w, r, t); err != nil {
		a.Err(w, r, err)
		return
	}

	a.redirect(w, r,
		resp.Url(dashboardPath),
		resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: session.SignedUpMsg}),
	)
}

// Dashboard renders the authenticated user's page.
func (a *App) Dashboard(w http.ResponseWriter, r *http.Request) {
	val, err := a.CurrentUser(r.Context())
	if err != nil {
		a.Err(w, r, err)
		return
	}

	u, ok := val.(gatehouse.User)
	if !ok {
		a.Err(w, r, resp.ErrNoUser)
		return
	}

	a.html(w, r, resp.Authed(), resp.Tmpls(dashboardTmpl), resp.Data(u))
}

// LogOff asks the provider to revoke the session's credential material,
// drops it from the session either way, and sends the user home.
func (a *App) LogOff(w http.ResponseWriter, r *http.Request) {
	s, err := a.Session(r.Context())
	if err != nil {
		a.Err(w, r, err)
		return
	}

	if t, err := s.Tokens(); err == nil {
		if err := a.oracle.LogOut(r.Context(), t); err != nil {
			// best effort; the session is cleared regardless
			a.l.Error("could not revoke credential material", &logger.LogContext{Error: err, Request: r})
		}
	}

	if err := s.DeregisterTokens(w, r); err != nil {
		a.Err(w, r, err)
		return
	}

	a.redirect(w, r, resp.Flash(session.Flash{Class: session.FlashInfo, Msg: session.LoggedOutMsg}))
}

// parseCredentials reads the login/signup form off the request,
// bouncing the user back to the form when it doesn't hold together.
func (a *App) parseCredentials(w http.ResponseWriter, r *http.Request, backTo string) (credentials, bool) {
	var creds credentials
	if err := r.ParseForm(); err != nil {
		a.Err(w, r, err)
		return creds, false
	}

	if err := a.parser.ParseForm(r.PostForm, &creds); err != nil {
		a.redirect(w, r,
			resp.Url(backTo),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}),
		)
		return creds, false
	}

	return creds, true
}

// redirectRejected routes a provider failure back to the page the user came from.
//
// When the provider explained itself, its message flashes verbatim;
// a transport failure gets logged and a generic message instead.
func (a *App) redirectRejected(w http.ResponseWriter, r *http.Request, err error, backTo string) {
	var perr *provider.Error

	msg := session.BadCredsMsg
	switch {
	case errors.As(err, &perr):
		if perr.Message != "" {
			msg = perr.Message
		}

	case errors.Is(err, provider.ErrUnreachable):
		a.l.Error("identity provider unreachable", &logger.LogContext{Error: err, Request: r})
		msg = session.DefaultErrMsg
	}

	a.redirect(w, r,
		resp.Url(backTo),
		resp.Flash(session.Flash{Class: session.FlashError, Msg: msg}),
	)
}

func (a *App) html(w http.ResponseWriter, r *http.Request, fns ...resp.Fn) {
	if err := a.Html(w, r, fns...); err != nil {
		a.l.Error("could not render page", &logger.LogContext{Error: err, Request: r})
	}
}

func (a *App) redirect(w http.ResponseWriter, r *http.Request, fns ...resp.Fn) {
	if err := a.Redirect(w, r, fns...); err != nil {
		a.Err(w, r, err)
	}
}

// nextParam pulls the "next" destination off the request,
// whether it rode in on the query string or a form field,
// accepting only local paths.
func nextParam(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if next == "" {
		next = r.PostFormValue("next")
	}

	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}

	return next
}
