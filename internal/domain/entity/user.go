// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account a session stands in for. It carries the contact fields
// the audit tooling treats as PII; credentials live in a separate record.
type User struct {
	ID        uuid.UUID // The unique identifier for the account.
	Email     string    // The login identifier. Unique across accounts.
	Name      string    // Display name.
	Phone     string    // Optional contact number.
	CreatedAt time.Time // Timestamp of account creation.
	UpdatedAt time.Time // Timestamp of the last modification.
}
