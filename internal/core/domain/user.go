package domain

import "time"

// UserType classifies a user of the point of sale system.
type UserType string

const (
	Member      UserType = "MEMBER"
	Guest       UserType = "GUEST"
	Organ       UserType = "ORGAN"
	PointOfSale UserType = "POINT_OF_SALE"
)

// User represents an account holder whose balance is derived from the ledger.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (e.g., UUID)
	Name         string   `json:"name"`
	Type         UserType `json:"type"`
	PasswordHash string   `json:"-"` // bcrypt hash, never serialized
	// CurrentFinesID points at the user's active fine group. It is nil
	// exactly when the user's fine-adjusted balance is non-negative.
	CurrentFinesID *string `json:"currentFinesID,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
