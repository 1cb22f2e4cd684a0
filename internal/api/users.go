package api

import (
	"context"
	"net/http"
)

// Logout tells the backend the session token is no longer in use.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
}
