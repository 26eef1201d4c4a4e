package registry

import (
	"log/slog"

	"github.com/joshuapare/regkit/internal/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPolicy sets the policy used by the variadic Create, Put and Delete
// calls. The default is FailFast. Calls that take a Policy argument ignore
// it.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

func defaultClient() *Client {
	return &Client{log: logger.Discard(), policy: FailFast}
}
