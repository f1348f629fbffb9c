package firestore

import (
	"google.golang.org/api/option"

	"github.com/okian/marquee/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithCollection sets the collection holding question documents.
func WithCollection(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.collection = name
		}
	}
}

// WithCredentialsFile authenticates with a service account key file.
func WithCredentialsFile(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.clientOpts = append(c.clientOpts, option.WithCredentialsFile(path))
		}
	}
}

// WithClientOptions passes options through to the Firestore SDK.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) { c.clientOpts = append(c.clientOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
