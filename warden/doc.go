/*
Package warden composes all components of a gatehouse app and runs the web server.

A Warden collects the session store, the identity provider client, the
Responder, and the Router, wiring the full middleware stack in between.
Construct one with New and a set of Options, register routes, then call Serve.

Out of the box, New reads its configuration from environment variables;
cf. the exported *EnvVar constants. An .env file in the working directory
is loaded automatically.

	w, err := warden.New(warden.WithFS(files))
	if err != nil {
		// handle err
	}

	w.Handle(router.Route{Path: "/", Method: http.MethodGet, Handler: home(w.Responder)})

	if err := w.Serve(); err != nil {
		// handle err
	}
*/
package warden
