package warden

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/keyring"
	"github.com/xy-planning-network/gatehouse/http/resp"
	"github.com/xy-planning-network/gatehouse/http/router"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/http/template"
	"github.com/xy-planning-network/gatehouse/logger"
	"github.com/xy-planning-network/gatehouse/provider"
)

// A Warden manages and exposes all components of a gatehouse app to one another.
type Warden struct {
	*resp.Responder
	*router.Router

	ctx      context.Context
	env      gatehouse.Environment
	files    fs.FS
	kr       keyring.Keyringable
	l        logger.Logger
	oracle   provider.Service
	p        template.Parser
	sessions session.SessionStorer
	srv      *http.Server
	url      *url.URL
}

// New constructs a Warden from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
func New(opts ...Option) (*Warden, error) {
	w := new(Warden)
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Warden under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Warden
	// until either (1) user supplied Options or (2) default Options
	// configure the *Warden first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(w)
		if err != nil {
			return w, fmt.Errorf("%w: %s", gatehouse.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", gatehouse.ErrBadConfig, err)
		}
	}

	w.p = nil

	return w, nil
}

func (w *Warden) EmitEnv() gatehouse.Environment       { return w.env }
func (w *Warden) EmitKeyring() keyring.Keyringable     { return w.kr }
func (w *Warden) EmitLogger() logger.Logger            { return w.l }
func (w *Warden) EmitOracle() provider.Service         { return w.oracle }
func (w *Warden) EmitSessionStore() session.SessionStorer {
	return w.sessions
}

// Serve begins the web server.
//
// These, and (*Warden).Shutdown, stop Serve:
//
// - os.Interrupt
// - os.Kill
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (w *Warden) Serve() error {
	var cancel context.CancelFunc
	w.ctx, cancel = context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		os.Kill,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		s := <-ch
		w.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
		cancel()
	}()

	go func() {
		w.l.Info(fmt.Sprintf("running web server at %s", w.srv.Addr), nil)
		w.srv.Handler = w.Router
		if err := w.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			w.l.Error(err.Error(), nil)
		}
	}()

	<-w.ctx.Done()
	return w.Shutdown()
}

// Shutdown shutdowns the web server.
func (w *Warden) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w.l.Info("shutting down web server", nil)
	err := w.srv.Shutdown(shutdownCtx)
	if err == http.ErrServerClosed {
		w.l.Info("web server shutdown successfully", nil)
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	w.l.Info("web server shutdown successfully", nil)
	return nil
}
