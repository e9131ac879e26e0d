package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/xy-planning-network/gatehouse"
)

// errTokenExpired lets Verify distinguish a lapsed-but-refreshable access
// token from material that is wrong in some other way.
var errTokenExpired = jwt.ErrTokenExpired

// Claims are what the provider packs into an access token:
// the registered set plus the identity fields gatehouse renders.
type Claims struct {
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`

	jwt.RegisteredClaims
}

// userFromAccessToken verifies the access token against the shared HMAC key
// and unpacks its claims into a User, with no provider round trip.
func (c *Client) userFromAccessToken(raw string) (gatehouse.User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := new(Claims)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return gatehouse.User{}, err
	}

	return newUser(claims.Subject, claims.Email, time.Unix(claims.CreatedAt, 0))
}

// newUser builds the Session Descriptor handed to routing and rendering.
func newUser(id, email string, createdAt time.Time) (gatehouse.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gatehouse.User{}, fmt.Errorf("%w: provider subject is not a uuid: %s", gatehouse.ErrNotValid, err)
	}

	return gatehouse.User{CreatedAt: createdAt, Email: email, ID: uid}, nil
}
