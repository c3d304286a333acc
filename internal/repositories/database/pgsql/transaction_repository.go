package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	"github.com/posys/pos_ledger_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements the facade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction persists a transaction with its sub-transactions and rows
// in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if err := lockUser(ctx, tx, txn.FromID); err != nil {
		return err
	}

	txnQuery := `
		INSERT INTO transactions (transaction_id, from_id, point_of_sale_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, txnQuery,
		txn.TransactionID,
		txn.FromID,
		txn.PointOfSaleID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	subQuery := `
		INSERT INTO sub_transactions (sub_transaction_id, transaction_id, to_id)
		VALUES ($1, $2, $3);
	`
	rowQuery := `
		INSERT INTO sub_transaction_rows (row_id, sub_transaction_id, product_id, unit_price_incl_vat, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, sub := range txn.SubTransactions {
		batch.Queue(subQuery, sub.SubTransactionID, sub.TransactionID, sub.ToID)
		for _, row := range sub.Rows {
			batch.Queue(rowQuery, row.RowID, row.SubTransactionID, row.ProductID, row.UnitPriceInclVat, row.Amount)
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute row batch for transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionsByUser returns every transaction where the user is the
// buyer with created_at <= until, rows populated, oldest first.
func (r *PgxTransactionRepository) FindTransactionsByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, from_id, point_of_sale_id, created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE from_id = $1 AND created_at <= $2
		ORDER BY created_at ASC, transaction_id ASC;
	`
	txns, err := r.queryTransactions(ctx, query, userID, until)
	if err != nil {
		return nil, err
	}
	if err := r.loadSubTransactions(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// ListTransactionsByUser returns a keyset-paginated page of the user's
// transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT transaction_id, from_id, point_of_sale_id, created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE from_id = $1
	`
	args := []any{userID}
	if nextToken != nil && *nextToken != "" {
		tokenTime, tokenID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, tokenTime, tokenID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to detect the next page

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}

	if err := r.loadSubTransactions(ctx, txns); err != nil {
		return nil, nil, err
	}
	return txns, token, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(
			&txn.TransactionID,
			&txn.FromID,
			&txn.PointOfSaleID,
			&txn.CreatedAt,
			&txn.CreatedBy,
			&txn.LastUpdatedAt,
			&txn.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, nil
}

// loadSubTransactions populates the sub-transactions and rows of the given
// transactions in two queries.
func (r *PgxTransactionRepository) loadSubTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	txnIDs := make([]string, len(txns))
	txnIndex := make(map[string]int, len(txns))
	for i, txn := range txns {
		txnIDs[i] = txn.TransactionID
		txnIndex[txn.TransactionID] = i
	}

	subQuery := `
		SELECT sub_transaction_id, transaction_id, to_id
		FROM sub_transactions
		WHERE transaction_id = ANY($1)
		ORDER BY sub_transaction_id ASC;
	`
	subRows, err := r.Pool.Query(ctx, subQuery, txnIDs)
	if err != nil {
		return fmt.Errorf("failed to query sub-transactions: %w", err)
	}
	defer subRows.Close()

	subIDs := []string{}
	// subLoc maps a sub-transaction to its position in the parent slice.
	type subLoc struct{ txnIdx, subIdx int }
	subIndex := map[string]subLoc{}
	for subRows.Next() {
		var sub domain.SubTransaction
		if err := subRows.Scan(&sub.SubTransactionID, &sub.TransactionID, &sub.ToID); err != nil {
			return fmt.Errorf("failed to scan sub-transaction row: %w", err)
		}
		i := txnIndex[sub.TransactionID]
		txns[i].SubTransactions = append(txns[i].SubTransactions, sub)
		subIndex[sub.SubTransactionID] = subLoc{txnIdx: i, subIdx: len(txns[i].SubTransactions) - 1}
		subIDs = append(subIDs, sub.SubTransactionID)
	}
	if subRows.Err() != nil {
		return fmt.Errorf("error iterating sub-transaction rows: %w", subRows.Err())
	}
	if len(subIDs) == 0 {
		return nil
	}

	rowQuery := `
		SELECT row_id, sub_transaction_id, product_id, unit_price_incl_vat, amount
		FROM sub_transaction_rows
		WHERE sub_transaction_id = ANY($1)
		ORDER BY row_id ASC;
	`
	rowRows, err := r.Pool.Query(ctx, rowQuery, subIDs)
	if err != nil {
		return fmt.Errorf("failed to query sub-transaction rows: %w", err)
	}
	defer rowRows.Close()

	for rowRows.Next() {
		var row domain.SubTransactionRow
		if err := rowRows.Scan(&row.RowID, &row.SubTransactionID, &row.ProductID, &row.UnitPriceInclVat, &row.Amount); err != nil {
			return fmt.Errorf("failed to scan sub-transaction row line: %w", err)
		}
		loc, ok := subIndex[row.SubTransactionID]
		if !ok {
			return errors.New("internal error: row references unknown sub-transaction " + row.SubTransactionID)
		}
		sub := &txns[loc.txnIdx].SubTransactions[loc.subIdx]
		sub.Rows = append(sub.Rows, row)
	}
	if rowRows.Err() != nil {
		return fmt.Errorf("error iterating sub-transaction row lines: %w", rowRows.Err())
	}
	return nil
}
