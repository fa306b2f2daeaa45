package repositories

import "context"

// TxFn is the unit of work executed against a transactional repository view.
type TxFn func(tx MemberRepositoryFacade) error

// TransactionManager runs a function as one atomic unit of work.
//
// Placement and activation both mutate several members (a sponsor's directs,
// every ancestor's wallets) and must never be observable half-applied. The
// in-memory store satisfies this with a store-wide write lock; the pgsql
// store with a database transaction plus row locks on the touched members.
type TransactionManager interface {
	WithTx(ctx context.Context, fn TxFn) error
}
