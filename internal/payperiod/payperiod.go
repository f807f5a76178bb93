package payperiod

import (
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

// Period is a closed calendar-month window. Start is the first day of
// the month, End the last day, both at midnight UTC. Timestamp scans
// use [Start, NextStart) instead so late-evening rows on the last day
// are not lost.
type Period struct {
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

// Resolve builds the period for a year/month pair. Month must be 1..12
// and year positive; anything else is an input error, never a panic or
// a silently shifted date.
func Resolve(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, apperror.New(
			apperror.CodeInvalidInput,
			fmt.Sprintf("Month must be between 1 and 12, got %d", month),
			http.StatusBadRequest,
		)
	}
	if year <= 0 {
		return Period{}, apperror.New(
			apperror.CodeInvalidInput,
			fmt.Sprintf("Year must be positive, got %d", year),
			http.StatusBadRequest,
		)
	}

	return Period{
		Year:  year,
		Month: month,
		Start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		// Day 0 of the next month normalizes to the last day of this one
		End: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC),
	}, nil
}

// Current resolves the period containing now.
func Current(now time.Time) Period {
	p, _ := Resolve(now.Year(), int(now.Month()))
	return p
}

// NextStart is the first instant after the period, for half-open
// timestamp comparisons.
func (p Period) NextStart() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.NextStart())
}

// MonthName is the English month name, e.g. "July".
func (p Period) MonthName() string {
	return time.Month(p.Month).String()
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Scope filters rows whose timestamp column falls inside the period.
func Scope(column string, p Period) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", p.Start, p.NextStart())
	}
}

// OverlapScope filters rows whose [fromCol, toCol] window touches the
// period. A NULL bound is open ended, so a row with no end date is
// still considered active.
func OverlapScope(fromCol, toCol string, p Period) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"("+fromCol+" IS NULL OR "+fromCol+" <= ?) AND ("+toCol+" IS NULL OR "+toCol+" >= ?)",
			p.End, p.Start,
		)
	}
}
