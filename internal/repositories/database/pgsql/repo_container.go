package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:     newPgxUserRepository(dbPool),
		TxnRepo:      newPgxTransactionRepository(dbPool),
		TransferRepo: newPgxTransferRepository(dbPool),
		FineRepo:     newPgxFineRepository(dbPool),
	}
}
