package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/logger"
	"golang.org/x/oauth2"
)

const defaultTimeout = 5 * time.Second

// A Config provides the required values for constructing a Client.
type Config struct {
	// BaseURL is the root of the provider's HTTP API, e.g. https://id.example.com.
	BaseURL string

	// JWTSecret is the HMAC key the provider signs access tokens with,
	// shared so Verify can check tokens without a network round trip.
	JWTSecret string

	// Timeout bounds every call to the provider. Zero means defaultTimeout.
	Timeout time.Duration
}

// A Client implements Service over the provider's HTTP API.
//
// Login and refresh ride the provider's OAuth2-style token endpoint through
// golang.org/x/oauth2; signup and logout are plain JSON calls.
type Client struct {
	base   *url.URL
	cfg    *oauth2.Config
	http   *http.Client
	l      logger.Logger
	secret []byte
}

// NewClient constructs a Client from the Config, validating it.
func NewClient(cfg Config, l logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf(`%w: provider config cannot be ""`, gatehouse.ErrBadConfig)
	}

	base, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: provider base URL is not valid: %s", gatehouse.ErrBadConfig, err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if l == nil {
		l = logger.New()
	}

	return &Client{
		base: base,
		cfg: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimSuffix(cfg.BaseURL, "/") + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:   &http.Client{Timeout: cfg.Timeout},
		l:      l,
		secret: []byte(cfg.JWTSecret),
	}, nil
}

// LogIn exchanges the email & password for a token pair
// using the resource-owner password grant.
//
// A rejection by the provider returns an *Error carrying its message.
func (c *Client) LogIn(ctx context.Context, email, password string) (*oauth2.Token, error) {
	t, err := c.cfg.PasswordCredentialsToken(c.oauthCtx(ctx), email, password)
	if err != nil {
		return nil, c.classify(err)
	}

	return t, nil
}

// LogOut asks the provider to revoke the token pair. Best effort:
// the local session is cleared by the caller whether or not this succeeds.
func (c *Client) LogOut(ctx context.Context, t *oauth2.Token) error {
	if t == nil || t.AccessToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/logout"), nil)
	if err != nil {
		return err
	}
	t.SetAuthHeader(req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return c.rejection(res)
	}

	return nil
}

// SignUp creates an account with the provider.
//
// A rejection by the provider returns an *Error carrying its message;
// password policy lives entirely on the provider's side.
func (c *Client) SignUp(ctx context.Context, email, password string) (gatehouse.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return gatehouse.User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/signup"), bytes.NewReader(body))
	if err != nil {
		return gatehouse.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return gatehouse.User{}, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return gatehouse.User{}, c.rejection(res)
	}

	var payload struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return gatehouse.User{}, fmt.Errorf("%w: undecodable signup response: %s", gatehouse.ErrNotValid, err)
	}

	u, err := newUser(payload.ID, payload.Email, payload.CreatedAt)
	if err != nil {
		return gatehouse.User{}, err
	}

	return u, nil
}

// Verify is the Session Oracle call: given the request's credential material,
// produce the identity it vouches for, refreshing the token pair when the
// access token lapsed but the refresh token is still live.
//
// Verify runs at most one refresh round trip and never retries.
// Transport failures and provider rejections both resolve to an error,
// so routing fails closed; ErrUnreachable stays in the chain for logging.
func (c *Client) Verify(ctx context.Context, t *oauth2.Token) (gatehouse.User, *oauth2.Token, error) {
	if t == nil || t.AccessToken == "" {
		return gatehouse.User{}, nil, ErrNoSession
	}

	u, err := c.userFromAccessToken(t.AccessToken)
	if err == nil {
		return u, nil, nil
	}

	if !errors.Is(err, errTokenExpired) || t.RefreshToken == "" {
		return gatehouse.User{}, nil, ErrNoSession
	}

	refreshed, err := c.refresh(ctx, t)
	if err != nil {
		return gatehouse.User{}, nil, err
	}

	u, err = c.userFromAccessToken(refreshed.AccessToken)
	if err != nil {
		return gatehouse.User{}, nil, ErrNoSession
	}

	return u, refreshed, nil
}

// refresh rolls the token pair through the provider's token endpoint.
func (c *Client) refresh(ctx context.Context, t *oauth2.Token) (*oauth2.Token, error) {
	// NOTE(dlk): zero the access token so the TokenSource
	// cannot consider the pair still valid and skip the round trip.
	stale := &oauth2.Token{RefreshToken: t.RefreshToken}
	refreshed, err := c.cfg.TokenSource(c.oauthCtx(ctx), stale).Token()
	if err != nil {
		return nil, c.classify(err)
	}

	return refreshed, nil
}

// classify maps token-endpoint failures into the package's error taxonomy:
// an answer from the provider means the credential is bad (no session),
// no answer at all means the provider is unreachable.
func (c *Client) classify(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		msg := re.ErrorDescription
		if msg == "" {
			msg = strings.TrimSpace(string(re.Body))
		}

		return &Error{Code: re.Response.StatusCode, Message: msg}
	}

	return fmt.Errorf("%w: %s", ErrUnreachable, err)
}

// rejection decodes the provider's error payload, keeping its message verbatim.
func (c *Client) rejection(res *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&payload)

	return &Error{Code: res.StatusCode, Message: payload.Message}
}

func (c *Client) endpoint(p string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + p
	return u.String()
}

// oauthCtx pins the x/oauth2 machinery to this Client's *http.Client
// so the configured timeout bounds every token-endpoint call.
func (c *Client) oauthCtx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}
