// Package remote wraps the hosted Supabase backend: table-level CRUD over
// PostgREST and the GoTrue auth session. It is the only package that talks
// to the network on behalf of the core.
package remote

import (
	"context"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// Client is the authenticated remote service handle.
type Client struct {
	sb     *supabase.Client
	logger *zap.Logger
}

// New creates a client against the given Supabase project.
func New(url, anonKey string, logger *zap.Logger) (*Client, error) {
	sb, err := supabase.NewClient(url, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &Client{sb: sb, logger: logger}, nil
}

// SignIn authenticates with email/password and binds the returned session
// to subsequent requests.
func (c *Client) SignIn(_ context.Context, email, password string) (types.Session, error) {
	session, err := c.sb.SignInWithEmailPassword(email, password)
	if err != nil {
		return types.Session{}, fmt.Errorf("sign in: %w", err)
	}
	c.sb.UpdateAuthSession(session)
	return session, nil
}

// SignOut revokes the current session server-side.
func (c *Client) SignOut(_ context.Context) error {
	if err := c.sb.Auth.Logout(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// RestoreSession binds a previously cached session to this client without
// a fresh sign-in.
func (c *Client) RestoreSession(session types.Session) {
	c.sb.UpdateAuthSession(session)
}

// CurrentUserID resolves the authenticated user from the remote service.
// Returns an error when there is no live session.
func (c *Client) CurrentUserID(_ context.Context) (string, error) {
	resp, err := c.sb.Auth.GetUser()
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	return resp.User.ID.String(), nil
}
