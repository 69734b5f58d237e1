package api

import (
	"context"
	"net/http"
	"net/url"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token via POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var tok Token
	err := c.doJSON(ctx, http.MethodPost, c.endpoint("/auth/login", nil), credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, wrapOp(err, "Login")
	}
	return &tok, nil
}

// Signup registers a new account via POST /auth/signup. The backend
// sends a verification email and still returns a token immediately.
func (c *Client) Signup(ctx context.Context, email, password string) (*Token, error) {
	var tok Token
	err := c.doJSON(ctx, http.MethodPost, c.endpoint("/auth/signup", nil), credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, wrapOp(err, "Signup")
	}
	return &tok, nil
}

// Verify confirms an email address using the token from the
// verification link (GET /auth/verify/{token}).
func (c *Client) Verify(ctx context.Context, token string) error {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodGet, c.endpoint("/auth/verify/"+url.PathEscape(token), nil), nil, "", &out)
	return wrapOp(err, "Verify")
}

// ResendVerification asks the backend to re-send the verification
// email for the given address.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	err := c.doJSON(ctx, http.MethodPost, c.endpoint("/auth/resend-verification", nil), payload, nil)
	return wrapOp(err, "ResendVerification")
}
