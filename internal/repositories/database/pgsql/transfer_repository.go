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
)

type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepositoryFacade {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransferRepository implements the facade
var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

const transferColumns = `transfer_id, from_id, to_id, amount_incl_vat, description, fine_id, waived_group_id, created_at, created_by, last_updated_at, last_updated_by`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := row.Scan(
		&transfer.TransferID,
		&transfer.FromID,
		&transfer.ToID,
		&transfer.AmountInclVat,
		&transfer.Description,
		&transfer.FineID,
		&transfer.WaivedGroupID,
		&transfer.CreatedAt,
		&transfer.CreatedBy,
		&transfer.LastUpdatedAt,
		&transfer.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *PgxTransferRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		transfer.TransferID,
		transfer.FromID,
		transfer.ToID,
		transfer.AmountInclVat,
		transfer.Description,
		transfer.FineID,
		transfer.WaivedGroupID,
		transfer.CreatedAt,
		transfer.CreatedBy,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE transfer_id = $1;
	`
	transfer, err := scanTransfer(r.Pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by ID %s: %w", transferID, err)
	}
	return transfer, nil
}

// FindTransfersByUser returns every transfer where the user is the sender or
// the receiver with created_at <= until, oldest first.
func (r *PgxTransferRepository) FindTransfersByUser(ctx context.Context, userID string, until time.Time) ([]domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE (from_id = $1 OR to_id = $1) AND created_at <= $2
		ORDER BY created_at ASC, transfer_id ASC;
	`
	return r.queryTransfers(ctx, query, userID, until)
}

// FindFineLinkedTransfers returns transfers created in [from, to) that
// reference a fine or a waived fine group.
func (r *PgxTransferRepository) FindFineLinkedTransfers(ctx context.Context, from, to time.Time) ([]domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE created_at >= $1 AND created_at < $2
		  AND (fine_id IS NOT NULL OR waived_group_id IS NOT NULL)
		ORDER BY created_at ASC, transfer_id ASC;
	`
	return r.queryTransfers(ctx, query, from, to)
}

func (r *PgxTransferRepository) queryTransfers(ctx context.Context, query string, args ...any) ([]domain.Transfer, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	transfers := []domain.Transfer{}
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, *transfer)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", rows.Err())
	}
	return transfers, nil
}
