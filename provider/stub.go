package provider

import (
	"context"

	"github.com/xy-planning-network/gatehouse"
	"golang.org/x/oauth2"
)

var _ Service = (*Stub)(nil)

// A Stub implements Service without a provider on the other end,
// for tests and environments where gatehouse.Environment.CanUseServiceStub.
type Stub struct {
	// User is handed back by Verify and SignUp when Err is nil.
	User gatehouse.User

	// Refreshed, when set, is returned by Verify as rolled credential material.
	Refreshed *oauth2.Token

	// Err, when set, is returned by every operation.
	Err error
}

func (s *Stub) LogIn(context.Context, string, string) (*oauth2.Token, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	return &oauth2.Token{AccessToken: "stub-access", RefreshToken: "stub-refresh"}, nil
}

func (s *Stub) LogOut(context.Context, *oauth2.Token) error { return s.Err }

func (s *Stub) SignUp(context.Context, string, string) (gatehouse.User, error) {
	if s.Err != nil {
		return gatehouse.User{}, s.Err
	}

	return s.User, nil
}

func (s *Stub) Verify(context.Context, *oauth2.Token) (gatehouse.User, *oauth2.Token, error) {
	if s.Err != nil {
		return gatehouse.User{}, nil, s.Err
	}

	return s.User, s.Refreshed, nil
}
