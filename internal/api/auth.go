package api

import (
	"context"
	"fmt"
	"net/http"
)

type (
	// User is the profile the API returns on login.
	User struct {
		ID       string `json:"_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Currency string `json:"currency,omitempty"`
	}

	// Credentials pairs the profile with the bearer token the server minted
	// for it.
	Credentials struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}

	loginBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
)

// Login exchanges email and password for a bearer token and user profile.
// It is the only call issued without an Authorization header.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	endpoint := fmt.Sprintf("%s/auth/login", c.baseURL)
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, endpoint, loginBody{Email: email, Password: password}, &creds); err != nil {
		return Credentials{}, fmt.Errorf("login: %w", err)
	}
	return creds, nil
}
