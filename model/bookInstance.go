package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	StatusMaintenance LoanStatus = "maintenance"
	StatusOnLoan      LoanStatus = "on_loan"
	StatusAvailable   LoanStatus = "available"
	StatusReserved    LoanStatus = "reserved"
)

func IsValidLoanStatus(s string) bool {
	switch LoanStatus(s) {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return true
	}
	return false
}

// BookInstance is a specific physical copy of a book that can be borrowed.
type BookInstance struct {
	ID         uuid.UUID  `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	Imprint    string     `json:"imprint"`
	DueBack    *time.Time `json:"due_back,omitempty"`
	BorrowerID *int64     `json:"borrower_id,omitempty"`
	Status     LoanStatus `json:"status"`
	PhotoKey   *string    `json:"photo_key,omitempty"`
	IsOverdue  bool       `json:"is_overdue"`
}

// Display renders the instance as "<uuid> (<book title>)".
func (b *BookInstance) Display() string {
	return fmt.Sprintf("%s (%s)", b.ID, b.BookTitle)
}

// Overdue reports whether the copy is past its due date today.
func (b *BookInstance) Overdue() bool {
	return b.OverdueAt(time.Now())
}

// OverdueAt compares calendar dates: a copy is overdue only when due_back is
// set and falls strictly before now's date.
func (b *BookInstance) OverdueAt(now time.Time) bool {
	if b.DueBack == nil {
		return false
	}
	due := b.DueBack
	y1, m1, d1 := due.Date()
	y2, m2, d2 := now.Date()
	dueDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return dueDay.Before(today)
}

// CreateInstanceReq represents book copy creation payload
// swagger:model CreateInstanceReq
type CreateInstanceReq struct {
	Imprint string `json:"imprint" validate:"required,max=200"`
	Status  string `json:"status" validate:"omitempty,oneof=maintenance on_loan available reserved"`
}

// LoanReq represents loan-out payload
// swagger:model LoanReq
type LoanReq struct {
	BorrowerID int64  `json:"borrower_id" validate:"required,gt=0"`
	DueBack    string `json:"due_back" validate:"required,datetime=2006-01-02"`
}
