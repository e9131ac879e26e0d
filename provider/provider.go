// Package provider is the client for the hosted identity provider gatehouse delegates to.
//
// The provider owns user records, password hashing, and token issuance.
// gatehouse only ever holds the credential material the provider hands out:
// an access token (a JWT signed with a key shared with this client) and an
// opaque refresh token, carried together in an [golang.org/x/oauth2.Token].
//
// Verify is the one call the routing layer makes per request. It never
// retries and it never fails open: any doubt about the credential material
// resolves to ErrNoSession.
package provider

import (
	"context"

	"github.com/xy-planning-network/gatehouse"
	"golang.org/x/oauth2"
)

// A Verifier turns a request's credential material into an authenticated identity.
//
// Verify returns the identity the material vouches for and, when the provider
// rolled the token pair to do so, the refreshed material the caller must
// propagate back to the browser. A nil refreshed token means the material
// passed in is still current.
type Verifier interface {
	Verify(ctx context.Context, t *oauth2.Token) (gatehouse.User, *oauth2.Token, error)
}

// A Service composes Verifier with the credential-mutation operations
// page-level forms invoke. None of these are reimplemented locally;
// each is a pass-through to the provider.
type Service interface {
	Verifier

	LogIn(ctx context.Context, email, password string) (*oauth2.Token, error)
	LogOut(ctx context.Context, t *oauth2.Token) error
	SignUp(ctx context.Context, email, password string) (gatehouse.User, error)
}
