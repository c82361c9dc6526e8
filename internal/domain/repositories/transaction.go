package repositories

import "context"

// TxFn is a function that runs within a transaction. Repository calls made
// with the ctx it receives join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs read-then-write sequences atomically. The postgres
// implementation uses a database transaction; the memory one a lock.
type TransactionManager interface {
	// ExecTx executes fn within a transaction. Calls nested inside fn reuse
	// the outer transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
