// Package domain defines the persistence models for intake submissions and
// request idempotency. These types are mapped with GORM and shared by the
// repository, service, and transport layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Risk scores written by the evaluator. The column accepts 1..3; 2 is
// reserved and never produced.
const (
	RiskLow  = 1
	RiskHigh = 3
)

// IntakeData is the questionnaire a patient submits. Every field is text.
// Weight is kilograms and height centimeters once normalized; Lifestyle is
// an activity code "1".."5".
type IntakeData struct {
	Age       string `json:"age"`
	Weight    string `json:"weight"`
	Height    string `json:"height"`
	Symptoms  string `json:"symptoms"`
	History   string `json:"history"`
	Lifestyle string `json:"lifestyle"`
}

// Submission is one persisted intake. Rows are append-only: nothing in the
// application updates or deletes them.
//
// Fields:
//   - ID: auto-increment primary key assigned by the store.
//   - Username: free-text actor id (not a foreign key).
//   - SubmissionData: the six intake fields, stored as a JSON column.
//   - Recommendation / RiskScore: evaluator output, computed once.
//   - CreatedAt: set by GORM on insert.
type Submission struct {
	ID             uint                           `json:"id"             gorm:"primaryKey;autoIncrement"`
	Username       string                         `json:"username"       gorm:"type:varchar(64);not null;index:idx_intake_username"`
	SubmissionData datatypes.JSONType[IntakeData] `json:"submissionData" gorm:"column:submission_data;not null"`
	Recommendation string                         `json:"recommendation" gorm:"type:text;not null"`
	RiskScore      int                            `json:"riskScore"      gorm:"not null;check:chk_intake_risk_score,risk_score BETWEEN 1 AND 3"`
	CreatedAt      time.Time                      `json:"createdAt"      gorm:"not null;index:idx_intake_created_at"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "patient_intake" }

// Data returns the decoded intake fields.
func (s Submission) Data() IntakeData { return s.SubmissionData.Data() }

// SubmissionSummary is the list projection of a Submission. It never carries
// the intake fields.
type SubmissionSummary struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"timestamp"`
	Recommendation string    `json:"recommendation"`
	RiskScore      int       `json:"riskScore"`
}
