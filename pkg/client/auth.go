package client

import (
	"context"
	"errors"
	"net/http"

	appErrors "github.com/lironatar/TasksList/pkg/errors"
)

// Register creates an unverified account. The server mails the first code, so
// the resend cooldown for the email starts here.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := requireValue("email", input.Email); err != nil {
		return nil, err
	}
	if err := requireValue("password", input.Password); err != nil {
		return nil, err
	}
	if err := requireValue("name", input.Name); err != nil {
		return nil, err
	}

	var out RegisterResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &out); err != nil {
		return nil, err
	}
	if out.RequiresVerification {
		c.markSent(input.Email)
	}
	return &out, nil
}

// Login signs in. A verified account fills the session; an unverified one
// returns RequiresVerification and leaves the session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := requireValue("email", email); err != nil {
		return nil, err
	}
	if err := requireValue("password", password); err != nil {
		return nil, err
	}

	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if out.RequiresVerification {
		return &out, nil
	}
	c.session.set(out.Token, out.User)
	return &out, nil
}

// Logout asks the server to revoke the token and always clears the local session.
// It never fails: server and transport errors are discarded because the token is
// gone locally either way.
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Authenticated() {
		return nil
	}
	_ = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.session.Clear()
	return nil
}

// Me returns the user behind the session token, or (nil, nil) when the token is missing or no longer valid.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if !c.session.Authenticated() {
		return nil, nil
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			c.session.Clear()
			return nil, nil
		}
		return nil, err
	}
	c.session.setUser(&user)
	return &user, nil
}

// SendCode asks for a fresh verification code, subject to the resend cooldown.
func (c *Client) SendCode(ctx context.Context, email string) error {
	if err := requireValue("email", email); err != nil {
		return err
	}
	if err := c.throttle(email); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, "/auth/send-code", map[string]string{"email": email}, nil); err != nil {
		c.releaseThrottle(email)
		return err
	}
	return nil
}

// Verify confirms the code mailed to email. An empty code requests a resend instead.
func (c *Client) Verify(ctx context.Context, email, code string) error {
	if err := requireValue("email", email); err != nil {
		return err
	}
	if code == "" {
		return c.SendCode(ctx, email)
	}
	body := map[string]string{"email": email, "code": code}
	return c.do(ctx, http.MethodPost, "/auth/verify", body, nil)
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	c.session.setUser(&user)
	return &user, nil
}

// UpdateProfile applies a sparse profile change.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/users/profile", update, &user); err != nil {
		return nil, err
	}
	c.session.setUser(&user)
	return &user, nil
}

// UpdateProfileIcon selects a new icon and returns the stored value.
func (c *Client) UpdateProfileIcon(ctx context.Context, icon string) (string, error) {
	if err := requireValue("profile_icon", icon); err != nil {
		return "", err
	}
	var out struct {
		ProfileIcon string `json:"profile_icon"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/profile-icon", map[string]string{"profile_icon": icon}, &out); err != nil {
		return "", err
	}
	if user := c.session.User(); user != nil {
		user.ProfileIcon = out.ProfileIcon
		c.session.setUser(user)
	}
	return out.ProfileIcon, nil
}

// ProfileIcons lists the selectable icons. No session is needed.
func (c *Client) ProfileIcons(ctx context.Context) ([]string, error) {
	var out struct {
		Icons []string `json:"icons"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/profile-icons", nil, &out); err != nil {
		return nil, err
	}
	return out.Icons, nil
}
