package warden

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/keyring"
	"github.com/xy-planning-network/gatehouse/http/resp"
	"github.com/xy-planning-network/gatehouse/http/router"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/logger"
	"github.com/xy-planning-network/gatehouse/provider"
)

// setupLog reports on the construction of a *Warden
// before the app's own logger is necessarily available.
var setupLog logger.Logger

// An Option configures a *Warden either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some Options require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithKeyring is an example of the first.
// An unexported field on the passed in *Warden is updated with the enclosed value.
//
// WithRouter is an example of the second.
// An unexported field on the passed in *Warden
// is updated only when the closure it returns is called.
type Option func(w *Warden) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the gatehouse app.
func WithContext(ctx context.Context) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.ctx = ctx
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using context %T", ctx), nil)
		}

		return nil, nil
	}
}

// WithEnv casts the provided string into a valid gatehouse.Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(val string) Option {
	e := gatehouse.Environment(strings.ToUpper(val))
	if err := e.Valid(); err == nil {
		return func(w *Warden) (OptFollowup, error) {
			w.env = e
			if setupLog != nil {
				setupLog.Debug(fmt.Sprintf("using env %s", e), nil)
			}

			return nil, nil
		}
	}

	return func(w *Warden) (OptFollowup, error) {
		w.env = gatehouse.EnvVarOrEnv(environmentEnvVar, gatehouse.Development)
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using env %s", w.env), nil)
		}

		return nil, nil
	}
}

// WithFS sets the filesystem HTML templates are read out of,
// typically an embed.FS carrying the app's tmpl directory.
func WithFS(files fs.FS) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.files = files
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using fs %T", files), nil)
		}

		return nil, nil
	}
}

// WithKeyring exposes the provided keyring.Keyringable to the gatehouse app.
func WithKeyring(k keyring.Keyringable) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.kr = k
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using keyring %T", k), nil)
		}

		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the gatehouse app.
func WithLogger(l logger.Logger) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.l = l
		if setupLog == nil {
			setupLog = l
		}

		setupLog.Debug(fmt.Sprintf("using logger %T", l), nil)

		return nil, nil
	}
}

// WithOracle exposes the provided provider.Service to the gatehouse app,
// standing in for the hosted identity provider on every session check.
func WithOracle(o provider.Service) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.oracle = o
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using identity provider %T", o), nil)
		}

		return nil, nil
	}
}

// WithResponder constructs a followup option that, when called,
// exposes the *resp.Responder to the gatehouse app.
func WithResponder(r *resp.Responder) Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			w.Responder = r
			if setupLog != nil {
				setupLog.Debug("using responder", nil)
			}

			return nil
		}, nil
	}
}

// WithRouter constructs a followup option that, when called,
// exposes the *router.Router to the gatehouse app.
//
// WithRouter does not wire any middleware onto the provided Router;
// the caller owns the full stack, VerifySession included.
func WithRouter(r *router.Router) Option {
	return func(w *Warden) (OptFollowup, error) {
		return func() error {
			w.Router = r
			if setupLog != nil {
				setupLog.Debug(fmt.Sprintf("using router %T", r), nil)
			}

			return nil
		}, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the gatehouse app.
func WithSessionStore(store session.SessionStorer) Option {
	return func(w *Warden) (OptFollowup, error) {
		w.sessions = store
		if setupLog != nil {
			setupLog.Debug(fmt.Sprintf("using session store %T", store), nil)
		}

		return nil, nil
	}
}

// WithServer exposes the *http.Server to the gatehouse app.
func WithServer(s *http.Server) Option {
	return func(w *Warden) (OptFollowup, error) {
		old := w.srv
		w.srv = s

		if old != nil {
			w.srv.Handler = old.Handler
		}

		return nil, nil
	}
}
