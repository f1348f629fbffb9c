// Package firestore reads trivia question documents from a Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

const defaultCollection = "trivia_questions"

// documentIterator is the part of *firestore.DocumentIterator FetchAll uses.
type documentIterator interface {
	Next() (*gcfirestore.DocumentSnapshot, error)
	Stop()
}

// Client streams one collection.
type Client struct {
	fs         *gcfirestore.Client
	collection string
	clientOpts []option.ClientOption
	log        logger.Logger

	documents func(ctx context.Context) documentIterator
}

// New connects to projectID. Credentials come from WithCredentialsFile or the
// environment; FIRESTORE_EMULATOR_HOST points the client at an emulator.
func New(ctx context.Context, projectID string, opts ...Option) (*Client, error) {
	c := newClient(opts...)
	fs, err := gcfirestore.NewClient(ctx, projectID, c.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	c.fs = fs
	c.documents = func(ctx context.Context) documentIterator {
		return fs.Collection(c.collection).Documents(ctx)
	}
	return c, nil
}

func newClient(opts ...Option) *Client {
	c := &Client{
		collection: defaultCollection,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the connection.
func (c *Client) Close() error {
	if c.fs == nil {
		return nil
	}
	return c.fs.Close()
}

// FetchAll reads every document in the collection. If the stream breaks, the
// documents read so far are returned along with the error.
func (c *Client) FetchAll(ctx context.Context) ([]model.RawQuestion, error) {
	it := c.documents(ctx)
	defer it.Stop()

	var out []model.RawQuestion
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			c.log.Debug(ctx, "fetched question documents", logger.Int("documents", len(out)))
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w after %d documents: %w", ErrRead, len(out), err)
		}
		out = append(out, c.decode(ctx, snap))
	}
}

// decode maps a snapshot onto a raw record. A document that does not decode
// keeps its id and an invalid index so ingestion rejects and counts it.
func (c *Client) decode(ctx context.Context, snap *gcfirestore.DocumentSnapshot) model.RawQuestion {
	var id string
	if snap.Ref != nil {
		id = snap.Ref.ID
	}
	var doc questionDoc
	if err := snap.DataTo(&doc); err != nil {
		c.log.Debug(ctx, "undecodable question document", logger.String("id", id), logger.Error(err))
		return model.RawQuestion{DocID: id, CorrectIndex: -1}
	}
	return doc.raw(id)
}
