package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"tukarlapak/internal/domain/repository"
)

type firestoreTxRunner struct {
	client *firestore.Client
}

func NewFirestoreTxRunner(client *firestore.Client) repository.TxRunner {
	return &firestoreTxRunner{client: client}
}

func (r *firestoreTxRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, tx)
	})
}

// firestoreTx unwraps the opaque handle handed out by firestoreTxRunner.
func firestoreTx(tx repository.Tx) *firestore.Transaction {
	t, ok := tx.(*firestore.Transaction)
	if !ok {
		panic("repository: Tx is not a Firestore transaction")
	}
	return t
}
