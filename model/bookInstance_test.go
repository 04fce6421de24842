package model_test

import (
	"strings"
	"testing"
	"time"

	"librarycatalog/model"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestOverdueAt(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		dueBack *time.Time
		want    bool
	}{
		{"no due date", nil, false},
		{"due yesterday", date(2026, time.March, 9), true},
		{"due today", date(2026, time.March, 10), false},
		{"due tomorrow", date(2026, time.March, 11), false},
		{"long overdue", date(2025, time.December, 1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bi := model.BookInstance{DueBack: tc.dueBack}
			if got := bi.OverdueAt(now); got != tc.want {
				t.Fatalf("OverdueAt = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestOverdueAt_IgnoresTimeOfDay(t *testing.T) {
	// Due at 23:59 yesterday vs. now at 00:01 today: still a full calendar
	// day apart, so overdue.
	due := time.Date(2026, time.March, 9, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.UTC)
	bi := model.BookInstance{DueBack: &due}
	if !bi.OverdueAt(now) {
		t.Fatal("expected overdue across midnight")
	}
}

func TestInstanceDisplay(t *testing.T) {
	id := uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa6")
	bi := model.BookInstance{ID: id, BookTitle: "Dune"}
	want := "3fa85f64-5717-4562-b3fc-2c963f66afa6 (Dune)"
	if got := bi.Display(); got != want {
		t.Fatalf("Display = %q; want %q", got, want)
	}
}

func TestIsValidLoanStatus(t *testing.T) {
	for _, s := range []string{"maintenance", "on_loan", "available", "reserved"} {
		if !model.IsValidLoanStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "d", "ON_LOAN", "lost"} {
		if model.IsValidLoanStatus(s) {
			t.Fatalf("%s should be invalid", s)
		}
	}
}

func TestStatusWords(t *testing.T) {
	for _, s := range []model.LoanStatus{model.StatusMaintenance, model.StatusOnLoan, model.StatusAvailable, model.StatusReserved} {
		if strings.ToLower(string(s)) != string(s) {
			t.Fatalf("status %q should be lowercase", s)
		}
	}
}
