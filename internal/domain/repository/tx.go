package repository

import (
	"context"
	"errors"
)

// Tx is an opaque handle to a running store transaction. Adapters assert it
// to their concrete transaction type.
type Tx interface{}

// TxRunner executes fn inside a single atomic transaction. Every write made
// through a Tx-taking repository method commits or rolls back as one unit.
//
// The underlying store requires all reads in a transaction to happen before
// the first write.
type TxRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// ErrStateChanged is returned by guarded conditional updates when another
// writer already transitioned the record. Sweep callers treat it as a benign
// no-op; user-initiated callers surface it as a conflict.
var ErrStateChanged = errors.New("record was changed by another writer")
