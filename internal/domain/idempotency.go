package domain

import "time"

// Idempotency records the submission produced for a client supplied
// Idempotency-Key, scoped to (username, key). A retry inside the TTL gets the
// original submission back instead of creating a new one.
type Idempotency struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_user_key,priority:1"`
	Key          string    `gorm:"column:idem_key;type:varchar(128);not null;uniqueIndex:ux_idem_user_key,priority:2"`
	SubmissionID uint      `gorm:"not null"`
	Status       int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// IdempotencyKeyMaxLen is the width of the idem_key column.
const IdempotencyKeyMaxLen = 128

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
