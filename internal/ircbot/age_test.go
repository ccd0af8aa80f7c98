package ircbot

import (
	"testing"
	"time"
)

func TestFormatAgeValid(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	got := formatAge("2000-02-29", now)
	want := "You are 26 years, 5 months, and 2 days old."
	if got != want {
		t.Errorf("formatAge(2000-02-29) = %q, want %q", got, want)
	}
}

func TestFormatAgeInvalid(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	tests := []string{
		"2001-02-29", // not a leap year
		"1899-01-01", // too early
		"2026-13-01", // bad month
		"2026-07-32", // bad day
		"not-a-date",
		"2026/07/31",
	}

	for _, in := range tests {
		got := formatAge(in, now)
		if got != invalidAgeMessage {
			t.Errorf("formatAge(%q) = %q, want invalid-format message", in, got)
		}
	}
}

func TestAgeAtBorrowsAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	age := ageAt(2024, 1, 31, now)

	// From 2024-01-31 to 2026-03-01, a single day-borrow from February
	// (28 days in 2026) is not enough to clear the -30 day deficit, so the
	// borrow continues into January too.
	if age.Years != 2 || age.Months != 0 || age.Days != 29 {
		t.Errorf("got %+v, want {2 0 29}", age)
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2000, true},
		{1900, false},
		{2024, true},
		{2023, false},
		{2400, true},
	}
	for _, tc := range tests {
		if got := isLeapYear(tc.year); got != tc.want {
			t.Errorf("isLeapYear(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}
