package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "strive/pkg/domain-errors"
	txcontext "strive/pkg/platform/tx"
)

const defaultWorkflowTxTimeout = 5 * time.Second

// workflowPostgresTx runs a workflow inside one SQL transaction. The
// transaction rides in the context, so every postgres store touched by the
// workflow writes through it and the whole workflow commits or rolls back
// together.
type workflowPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newWorkflowPostgresTx(db *sql.DB) *workflowPostgresTx {
	return &workflowPostgresTx{db: db}
}

func (t *workflowPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultWorkflowTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
