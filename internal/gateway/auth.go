package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/tidwall/gjson"

	"areactl/internal/session"
)

// ErrNoToken is returned when an auth response carries no token.
var ErrNoToken = errors.New("authentication response has no token")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "auth/sign-in", email, password)
}

// SignUp registers an account and returns its first session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "auth/signup", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*session.Session, error) {
	body, err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	token := doc.Get("token").String()
	if token == "" {
		token = doc.Get("Token").String()
	}
	if token == "" {
		return nil, ErrNoToken
	}
	return &session.Session{Token: token, Email: email}, nil
}
