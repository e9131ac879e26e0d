package warden

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/keyring"
	"github.com/xy-planning-network/gatehouse/http/middleware"
	"github.com/xy-planning-network/gatehouse/http/resp"
	"github.com/xy-planning-network/gatehouse/http/router"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/http/template"
	"github.com/xy-planning-network/gatehouse/logger"
	"github.com/xy-planning-network/gatehouse/provider"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// App metadata
	AppTitleEnvVar   = "APP_TITLE"
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hello@example.com"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"

	// Identity provider defaults
	ProviderJWTSecretEnvVar = "PROVIDER_JWT_SECRET"
	ProviderURLEnvVar       = "PROVIDER_URL"
	providerTimeoutEnvVar   = "PROVIDER_TIMEOUT"

	// Default HTML template files
	defaultTmplDir      = "tmpl"
	defaultErrTmpl      = defaultTmplDir + "/error.tmpl"
	defaultLayoutDir    = defaultTmplDir + "/layout"
	defaultAuthedTmpl   = defaultLayoutDir + "/authed_base.tmpl"
	defaultUnauthedTmpl = defaultLayoutDir + "/unauthed_base.tmpl"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAge           = 3600 * 24 * 7
	sessionRedisPassEnvVar  = "SESSION_REDIS_PASSWORD"
	sessionRedisURIEnvVar   = "SESSION_REDIS_URI"
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// defaultOpts is the baseline configuration of a *Warden.
// Options passed to New overwrite these, either immediately
// or by setting the component a guarded followup checks for.
func defaultOpts() []Option {
	return []Option{
		WithEnv(os.Getenv(environmentEnvVar)),
		defaultLogger(),
		defaultKeyring(),
		defaultBaseURLOpt(),
		defaultSessionStore(),
		defaultOracle(),
		defaultResponder(),
		defaultRouter(),
	}
}

// defaultLogger constructs a logger.Logger configured by the LOG_LEVEL env var.
func defaultLogger() Option {
	return func(w *Warden) (OptFollowup, error) {
		lvl := logger.NewLogLevel(gatehouse.EnvVarOrString(logLevelEnvVar, "INFO"))
		if lvl == logger.LogLevelUnk {
			lvl = logger.LogLevelInfo
		}

		w.l = logger.New(logger.WithEnv(w.env.String()), logger.WithLevel(lvl))
		if setupLog == nil {
			setupLog = w.l
		}

		setupLog.Debug("setting up app logger", nil)

		return nil, nil
	}
}

// defaultKeyring stocks a keyring.Keyringable with the context keys
// the standard middleware stack stashes values under.
func defaultKeyring() Option {
	return WithKeyring(keyring.NewKeyring(
		gatehouse.SessionKey,
		gatehouse.CurrentUserKey,
		gatehouse.IpAddrKey,
		gatehouse.RequestIDKey,
		gatehouse.ResponderKey,
	))
}

func defaultBaseURLOpt() Option {
	return func(w *Warden) (OptFollowup, error) {
		w.url = gatehouse.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)
		return nil, nil
	}
}

// defaultSessionStore constructs a session.SessionStorer backed by cookies,
// or by Redis when SESSION_REDIS_URI is set.
//
// defaultSessionStore relies on three env vars:
//   - APP_TITLE
//   - SESSION_AUTH_KEY
//   - SESSION_ENCRYPTION_KEY
//
// Both KEY env vars must be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore() Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			if w.sessions != nil {
				return nil
			}

			appName := gatehouse.EnvVarOrString(AppTitleEnvVar, "gatehouse")
			appName = cases.Lower(language.English).String(appName)
			appName = regexp.MustCompile(`[,':]`).ReplaceAllString(appName, "")
			appName = regexp.MustCompile(`\s`).ReplaceAllString(appName, "-")

			cfg := session.Config{
				AuthKey:     os.Getenv(SessionAuthKeyEnvVar),
				EncryptKey:  os.Getenv(SessionEncryptKeyEnvVar),
				Env:         w.env,
				SessionName: "gatehouse-" + appName,
			}

			args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
			if uri := os.Getenv(sessionRedisURIEnvVar); uri != "" {
				args = append(args, session.WithRedis(uri, os.Getenv(sessionRedisPassEnvVar)))
			} else {
				args = append(args, session.WithCookie())
			}

			store, err := session.NewStoreService(cfg, args...)
			if err != nil {
				return err
			}

			w.sessions = store
			return nil
		}, nil
	}
}

// defaultOracle constructs the provider.Service answering session checks.
//
// Without PROVIDER_URL set, environments that CanUseServiceStub get a
// *provider.Stub; all others refuse to start.
func defaultOracle() Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			if w.oracle != nil {
				return nil
			}

			base := os.Getenv(ProviderURLEnvVar)
			if base == "" {
				if !w.env.CanUseServiceStub() {
					return fmt.Errorf("%s must be set in %s", ProviderURLEnvVar, w.env)
				}

				// NOTE(dlk): an anonymous stub, so every request routes as logged out.
				setupLog.Info(ProviderURLEnvVar+" not set, stubbing the identity provider", nil)
				w.oracle = &provider.Stub{Err: provider.ErrNoSession}
				return nil
			}

			c, err := provider.NewClient(provider.Config{
				BaseURL:   base,
				JWTSecret: os.Getenv(ProviderJWTSecretEnvVar),
				Timeout:   gatehouse.EnvVarOrDuration(providerTimeoutEnvVar, 0),
			}, w.l)
			if err != nil {
				return err
			}

			w.oracle = c
			return nil
		}, nil
	}
}

// defaultResponder constructs the *resp.Responder handlers respond to HTTP requests with,
// parsing templates out of the filesystem set by WithFS.
//
// defaultResponder makes available these functions in an HTML template:
//
//   - "currentUser"
//   - "env"
//   - "nonce"
//   - "rootUrl"
func defaultResponder() Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			if w.Responder != nil {
				return nil
			}

			var args []template.ParserOptFn
			if w.files != nil {
				args = append(args, template.WithFS(w.files))
			}

			w.p = template.NewParser(args...)
			w.p.AddFn(template.Env(w.env))

			contact := gatehouse.EnvVarOrString(ContactUsEnvVar, defaultContactUs)
			w.Responder = resp.NewResponder(
				resp.WithAuthTemplate(defaultAuthedTmpl),
				resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, contact)),
				resp.WithErrTemplate(defaultErrTmpl),
				resp.WithLogger(w.l),
				resp.WithParser(w.p),
				resp.WithRootUrl(w.url.String()),
				resp.WithUnauthTemplate(defaultUnauthedTmpl),
			)

			return nil
		}, nil
	}
}

// defaultRouter constructs the *router.Router the web server hands requests to,
// wired with the standard middleware stack on every request:
//
//	RateLimit
//	CORS
//	ForceHTTPS
//	RequestID
//	InjectIPAddress
//	LogRequest
//	VerifySession
//	InjectResponder
//
// RequireAuthed and RequireUnauthed are not in the stack;
// apply those per route group with AuthedRoutes and UnauthedRoutes.
func defaultRouter() Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			if w.Router == nil {
				logReq := middleware.LogRequest(w.l)
				rt := router.New(w.env, logReq)
				rt.OnEveryRequest(
					middleware.RateLimit(middleware.NewVisitors()),
					middleware.CORS(w.url.String()),
					middleware.ForceHTTPS(w.env),
					middleware.RequestID(gatehouse.RequestIDKey),
					middleware.InjectIPAddress(),
					logReq,
					middleware.VerifySession(w.sessions, w.oracle, w.l, gatehouse.SessionKey, gatehouse.CurrentUserKey),
					middleware.InjectResponder(w.Responder, gatehouse.ResponderKey),
				)

				rt.HandleNotFound(func(wx http.ResponseWriter, rx *http.Request) {
					if strings.Contains(rx.Header.Get("Accept"), "text/html") && rx.URL.Path != w.url.Path {
						w.Redirect(wx, rx, resp.ToRoot())
						return
					}

					wx.WriteHeader(http.StatusNotFound)
				})

				w.Router = rt
			}

			if w.srv == nil {
				w.srv = defaultServer(w.ctx)
			}

			return nil
		}, nil
	}
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := gatehouse.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  gatehouse.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  gatehouse.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: gatehouse.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
