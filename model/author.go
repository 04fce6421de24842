package model

import (
	"fmt"
	"time"
)

type Author struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// DisplayName renders the author as "Last, First".
func (a *Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

// AbsoluteURL returns the canonical path for this author.
func (a *Author) AbsoluteURL() string {
	return fmt.Sprintf("/author/%d", a.ID)
}

// CreateAuthorReq represents author creation payload
// swagger:model CreateAuthorReq
type CreateAuthorReq struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	DateOfDeath string `json:"date_of_death" validate:"omitempty,datetime=2006-01-02"`
}
