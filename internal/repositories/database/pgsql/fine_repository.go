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

type PgxFineRepository struct {
	BaseRepository
}

func newPgxFineRepository(pool *pgxpool.Pool) portsrepo.FineRepositoryFacade {
	return &PgxFineRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFineRepository implements the facade
var _ portsrepo.FineRepositoryFacade = (*PgxFineRepository)(nil)

const fineColumns = `fine_id, event_id, group_id, user_id, transfer_id, amount, created_at, created_by, last_updated_at, last_updated_by`

func scanFine(row pgx.Row) (*domain.Fine, error) {
	var fine domain.Fine
	err := row.Scan(
		&fine.FineID,
		&fine.EventID,
		&fine.GroupID,
		&fine.UserID,
		&fine.TransferID,
		&fine.Amount,
		&fine.CreatedAt,
		&fine.CreatedBy,
		&fine.LastUpdatedAt,
		&fine.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

// SaveFineHandout persists a handout event with all its fines, backing
// transfers, groups and currentFines updates in one database transaction.
// Each affected user is advisory-locked so concurrent financial writes for
// the same user serialize.
func (r *PgxFineRepository) SaveFineHandout(ctx context.Context, event domain.FineHandoutEvent, handouts []portsrepo.FineHandout) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	eventQuery := `
		INSERT INTO fine_handout_events (event_id, reference_date, created_by_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, eventQuery,
		event.EventID,
		event.ReferenceDate,
		event.CreatedByID,
		event.CreatedAt,
		event.CreatedBy,
		event.LastUpdatedAt,
		event.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert handout event "+event.EventID, err)
	}

	for _, handout := range handouts {
		if err := lockUser(ctx, tx, handout.User.UserID); err != nil {
			return err
		}

		if !handout.GroupExists {
			groupQuery := `
				INSERT INTO user_fine_groups (group_id, user_id, waived_transfer_id, created_at, created_by, last_updated_at, last_updated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7);
			`
			_, err = tx.Exec(ctx, groupQuery,
				handout.Group.GroupID,
				handout.Group.UserID,
				handout.Group.WaivedTransferID,
				handout.Group.CreatedAt,
				handout.Group.CreatedBy,
				handout.Group.LastUpdatedAt,
				handout.Group.LastUpdatedBy,
			)
			if err != nil {
				return apperrors.NewAppError(500, "failed to insert fine group "+handout.Group.GroupID, err)
			}
		}

		if handout.Transfer != nil {
			if err := insertTransferInTx(ctx, tx, *handout.Transfer); err != nil {
				return err
			}
		}

		fineQuery := `
			INSERT INTO fines (` + fineColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err = tx.Exec(ctx, fineQuery,
			handout.Fine.FineID,
			handout.Fine.EventID,
			handout.Fine.GroupID,
			handout.Fine.UserID,
			handout.Fine.TransferID,
			handout.Fine.Amount,
			handout.Fine.CreatedAt,
			handout.Fine.CreatedBy,
			handout.Fine.LastUpdatedAt,
			handout.Fine.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert fine "+handout.Fine.FineID, err)
		}

		if handout.SetCurrentFines {
			if err := setCurrentFinesInTx(ctx, tx, handout.User.UserID, &handout.Group.GroupID, event.LastUpdatedAt, event.LastUpdatedBy); err != nil {
				return err
			}
		}
	}

	return r.Commit(ctx, tx)
}

// FindGroupByUserID returns the user's active fine group with its fines
// populated.
func (r *PgxFineRepository) FindGroupByUserID(ctx context.Context, userID string) (*domain.UserFineGroup, error) {
	return r.findGroup(ctx, `user_id`, userID)
}

// FindGroupByID returns a fine group by primary key with its fines
// populated.
func (r *PgxFineRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.UserFineGroup, error) {
	return r.findGroup(ctx, `group_id`, groupID)
}

func (r *PgxFineRepository) findGroup(ctx context.Context, column, value string) (*domain.UserFineGroup, error) {
	query := `
		SELECT group_id, user_id, waived_transfer_id, created_at, created_by, last_updated_at, last_updated_by
		FROM user_fine_groups
		WHERE ` + column + ` = $1;
	`
	var group domain.UserFineGroup
	err := r.Pool.QueryRow(ctx, query, value).Scan(
		&group.GroupID,
		&group.UserID,
		&group.WaivedTransferID,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.LastUpdatedAt,
		&group.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fine group by %s %s: %w", column, value, err)
	}

	finesQuery := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE group_id = $1
		ORDER BY created_at ASC, fine_id ASC;
	`
	rows, err := r.Pool.Query(ctx, finesQuery, group.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fines for group %s: %w", group.GroupID, err)
	}
	defer rows.Close()

	for rows.Next() {
		fine, err := scanFine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fine row: %w", err)
		}
		group.Fines = append(group.Fines, *fine)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fine rows: %w", rows.Err())
	}
	return &group, nil
}

func (r *PgxFineRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	query := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE fine_id = $1;
	`
	fine, err := scanFine(r.Pool.QueryRow(ctx, query, fineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fine by ID %s: %w", fineID, err)
	}
	return fine, nil
}

// ReplaceWaiver deletes the group's previous waiver transfer, persists the
// new one, repoints the group at it, and clears the user's currentFines
// pointer when requested. group carries the previous waiver id; the new one
// is waiver.TransferID.
func (r *PgxFineRepository) ReplaceWaiver(ctx context.Context, group domain.UserFineGroup, waiver domain.Transfer, clearCurrentFines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockUser(ctx, tx, group.UserID); err != nil {
		return err
	}

	if group.WaivedTransferID != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM transfers WHERE transfer_id = $1;`, *group.WaivedTransferID); err != nil {
			return apperrors.NewAppError(500, "failed to delete previous waiver transfer "+*group.WaivedTransferID, err)
		}
	}

	if err := insertTransferInTx(ctx, tx, waiver); err != nil {
		return err
	}

	groupQuery := `
		UPDATE user_fine_groups
		SET waived_transfer_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE group_id = $4;
	`
	cmdTag, err := tx.Exec(ctx, groupQuery, waiver.TransferID, waiver.LastUpdatedAt, waiver.LastUpdatedBy, group.GroupID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to repoint fine group "+group.GroupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("fine group not found: %w", apperrors.ErrNotFound)
	}

	if clearCurrentFines {
		if err := setCurrentFinesInTx(ctx, tx, group.UserID, nil, waiver.LastUpdatedAt, waiver.LastUpdatedBy); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteFine removes a fine together with its backing transfer. When it was
// the group's last fine the whole group goes, waiver transfer included, and
// the user's currentFines pointer is nulled.
func (r *PgxFineRepository) DeleteFine(ctx context.Context, fine domain.Fine, clearCurrentFines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var group domain.UserFineGroup
	err = tx.QueryRow(ctx, `
		SELECT group_id, user_id, waived_transfer_id
		FROM user_fine_groups
		WHERE group_id = $1;
	`, fine.GroupID).Scan(&group.GroupID, &group.UserID, &group.WaivedTransferID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load fine group %s: %w", fine.GroupID, err)
	}

	if err := lockUser(ctx, tx, group.UserID); err != nil {
		return err
	}

	if fine.TransferID != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM transfers WHERE transfer_id = $1;`, *fine.TransferID); err != nil {
			return apperrors.NewAppError(500, "failed to delete fine transfer "+*fine.TransferID, err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM fines WHERE fine_id = $1;`, fine.FineID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete fine "+fine.FineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	var remaining int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM fines WHERE group_id = $1;`, group.GroupID).Scan(&remaining); err != nil {
		return fmt.Errorf("failed to count remaining fines in group %s: %w", group.GroupID, err)
	}

	if remaining == 0 {
		if group.WaivedTransferID != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM transfers WHERE transfer_id = $1;`, *group.WaivedTransferID); err != nil {
				return apperrors.NewAppError(500, "failed to delete waiver transfer "+*group.WaivedTransferID, err)
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_fine_groups WHERE group_id = $1;`, group.GroupID); err != nil {
			return apperrors.NewAppError(500, "failed to delete fine group "+group.GroupID, err)
		}
		clearCurrentFines = true
	}

	if clearCurrentFines {
		if err := setCurrentFinesInTx(ctx, tx, group.UserID, nil, fine.LastUpdatedAt, fine.LastUpdatedBy); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

func insertTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
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
		return apperrors.NewAppError(500, "failed to insert transfer "+transfer.TransferID, err)
	}
	return nil
}

func setCurrentFinesInTx(ctx context.Context, tx pgx.Tx, userID string, groupID *string, at time.Time, by string) error {
	query := `
		UPDATE users
		SET current_fines_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, groupID, at, by, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update currentFines for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
