package session

import (
	"net/http"
	"time"

	gorilla "github.com/gorilla/sessions"
	"golang.org/x/oauth2"
)

// keys used internal to specific implementations of different interfaces.
const (
	sessionKey      = "gatehouse-session-gorilla" // used by Service
	accessTokenKey  = sessionKey + "-access"      // used by Session
	refreshTokenKey = sessionKey + "-refresh"     // used by Session
	tokenExpiryKey  = sessionKey + "-expiry"      // used by Session
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	ResetExpiry(w http.ResponseWriter, r *http.Request) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The TokenSessionable wraps methods for attaching, removing, and retrieving
// the identity provider's credential material from a session.
//
// The material itself is opaque to gatehouse; it is carried between
// the provider client and the browser's cookie and nothing else.
type TokenSessionable interface {
	DeregisterTokens(w http.ResponseWriter, r *http.Request) error
	RegisterTokens(w http.ResponseWriter, r *http.Request, t *oauth2.Token) error
	Tokens() (*oauth2.Token, error)
}

// The GateSessionable composes session's major interfaces.
type GateSessionable interface {
	FlashSessionable
	Sessionable
	TokenSessionable
}

// A Session provides all functionality for managing a fully featured session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession constructs a new Session as an implementation of GateSessionable
// from a *gorilla.Session.
//
// Typical usage is to pass in the value retrieved from a http.Request.Context.
func NewSession(g *gorilla.Session) GateSessionable { return Session{s: g} }

func (s Session) ClearFlashes(w http.ResponseWriter, r *http.Request) {
	_ = s.Flashes(w, r)
}

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// DeregisterTokens removes the provider's credential material from the session.
func (s Session) DeregisterTokens(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, accessTokenKey)
	delete(s.s.Values, refreshTokenKey)
	delete(s.s.Values, tokenExpiryKey)
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0)
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}
	if len(fs) > 0 {
		// NOTE(dlk): Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// RegisterTokens stores the provider's credential material in the session.
//
// RegisterTokens is called on login and every time the provider rolls the
// token pair, so refreshed material always reaches the outgoing response.
func (s Session) RegisterTokens(w http.ResponseWriter, r *http.Request, t *oauth2.Token) error {
	s.s.Values[accessTokenKey] = t.AccessToken
	s.s.Values[refreshTokenKey] = t.RefreshToken
	s.s.Values[tokenExpiryKey] = t.Expiry.Unix()
	return s.Save(w, r)
}

// ResetExpiry resets the expiration of the session by saving it.
func (s Session) ResetExpiry(w http.ResponseWriter, r *http.Request) error {
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// Tokens gets the provider's credential material out of the session.
// Credential material should be present in a session if the user logged in at some point.
// If none can be found, ErrNoTokens is returned.
// This ought to only happen when a user is going through an authentication workflow
// or hitting unauthenticated pages.
//
// If the values returned from the session are not strings, ErrNotValid is returned
// and represents a programming error.
func (s Session) Tokens() (*oauth2.Token, error) {
	rawAccess, ok := s.s.Values[accessTokenKey]
	if !ok {
		return nil, ErrNoTokens
	}

	access, ok := rawAccess.(string)
	if !ok {
		return nil, ErrNotValid
	}

	t := &oauth2.Token{AccessToken: access}
	if refresh, ok := s.s.Values[refreshTokenKey].(string); ok {
		t.RefreshToken = refresh
	}
	if exp, ok := s.s.Values[tokenExpiryKey].(int64); ok {
		t.Expiry = time.Unix(exp, 0)
	}

	return t, nil
}

var _ GateSessionable = Stub{}

// A Stub implements GateSessionable doing nothing,
// optionally pretending a login happened.
type Stub struct {
	Token *oauth2.Token
}

func (s Stub) ClearFlashes(w http.ResponseWriter, r *http.Request)                {}
func (s Stub) Flashes(w http.ResponseWriter, r *http.Request) []Flash             { return nil }
func (s Stub) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error { return nil }
func (s Stub) Delete(w http.ResponseWriter, r *http.Request) error                { return nil }
func (s Stub) Get(key string) any                                                 { return nil }
func (s Stub) ResetExpiry(w http.ResponseWriter, r *http.Request) error           { return nil }
func (s Stub) Save(w http.ResponseWriter, r *http.Request) error                  { return nil }
func (s Stub) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	return nil
}
func (s Stub) DeregisterTokens(w http.ResponseWriter, r *http.Request) error { return nil }
func (s Stub) RegisterTokens(w http.ResponseWriter, r *http.Request, t *oauth2.Token) error {
	return nil
}
func (s Stub) Tokens() (*oauth2.Token, error) {
	if s.Token == nil {
		return nil, ErrNoTokens
	}

	return s.Token, nil
}
