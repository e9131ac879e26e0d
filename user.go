package gatehouse

import (
	"time"

	"github.com/google/uuid"
)

// A User is the authenticated identity the hosted identity provider vouches for
// on a given request.
//
// An agent's HTTP requests are authenticated first by a specific request
// with email & password data the provider checks against its own records.
// Upon a match, the provider issues credential material stored in cookies.
// Further requests are authenticated by verifying that material.
//
// A User is borrowed for the duration of one request; gatehouse persists nothing about it.
type User struct {
	CreatedAt time.Time
	Email     string
	ID        uuid.UUID
}

// Exists asserts whether the provider actually produced this User.
func (u User) Exists() bool { return u.ID != uuid.Nil }

// GetEmail retrieves the email address of the User for logging.
func (u User) GetEmail() string { return u.Email }

// GetID retrieves the provider's identifier for the User for logging.
func (u User) GetID() string { return u.ID.String() }

// HasAccess asserts whether the User's properties give it general
// access to the gatehouse application.
func (u User) HasAccess() bool { return u.Exists() }

// HomePath returns the relative URL path designated
// as the default resource in the gatehouse application
// they can access.
func (u User) HomePath() string {
	if !u.HasAccess() {
		return "/login"
	}

	return "/dashboard"
}
