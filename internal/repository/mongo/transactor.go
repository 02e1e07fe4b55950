package mongo

import (
	"context"

	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs units of work inside a MongoDB multi-document transaction.
// Transactions need a replica set; with enabled=false fn runs without one.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) repository.Transactor {
	return &Transactor{client: client, enabled: enabled}
}

// WithinTransaction runs fn with a session context. Repository calls made with
// that context join the transaction. A ctx already bound to a session is reused.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
