package workflow

import "context"

// Tx runs a function atomically when the backing stores support it. The
// postgres runner in cmd/server opens a transaction and carries it in the
// context so every store write inside fn lands in the same transaction.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTx is the runner for memory-backed stores: there is nothing to roll
// back, so workflows rely on their compensating actions instead.
type NopTx struct{}

func (NopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
