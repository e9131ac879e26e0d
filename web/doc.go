/*
Package web is the demo surface of a gatehouse app: a handful of pages
wiring the identity provider's signup, login, and logoff flows into
session-gated routing.

The route table:

	/           neutral    shown to everyone
	/login      unauthed   authenticated users are sent to /dashboard
	/signup     unauthed   authenticated users are sent to /dashboard
	/dashboard  authed     anonymous users are sent to /login
	/logoff     authed     ends the session, back to /

gatehouse holds no user records. Every form POST is a pass-through to the
provider and every rejection message the provider explains is surfaced to
the end user verbatim in a flash.
*/
package web
