// Package recurrence holds the date arithmetic of recurring documents.
package recurrence

import (
	"time"

	"docflow/internal/domain"
)

// Anchor pins a schedule to a day of month, and for yearly schedules a month.
// Keeping the anchor separate from the last projected date stops month-end
// clamping from drifting: Jan 31 -> Feb 29 -> Mar 31.
type Anchor struct {
	Day   int
	Month time.Month
}

// AnchorOf returns the anchor implied by a date.
func AnchorOf(t time.Time) Anchor {
	return Anchor{Day: t.Day(), Month: t.Month()}
}

// Project returns the next occurrence after from.
//
//	monthly:   anchor day in the month after from
//	quarterly: anchor day in the first month of the calendar quarter after from
//	yearly:    anchor month and day in the year after from
//
// Days past the end of the target month are clamped to its last day.
func Project(freq domain.Frequency, from time.Time, anchor Anchor) time.Time {
	year, month := from.Year(), from.Month()

	switch freq {
	case domain.FrequencyQuarterly:
		quarterStart := ((int(month)-1)/3)*3 + 1
		year, month = normalize(year, quarterStart+3)
	case domain.FrequencyYearly:
		year, month = year+1, anchor.Month
	default:
		year, month = normalize(year, int(month)+1)
	}

	day := anchor.Day
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalize(year, month int) (int, time.Month) {
	for month > 12 {
		month -= 12
		year++
	}
	return year, time.Month(month)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate is the default payment or validity deadline for a document issued on issue.
func DueDate(docType domain.DocumentType, issue time.Time) time.Time {
	switch docType {
	case domain.DocumentTypeInvoice:
		return issue.AddDate(0, 0, 30)
	case domain.DocumentTypeQuote:
		return issue.AddDate(0, 0, 15)
	case domain.DocumentTypePO:
		return issue.AddDate(0, 0, 7)
	default:
		return issue.AddDate(0, 1, 0)
	}
}

// Exhausted reports whether next lies beyond the optional end date.
func Exhausted(next time.Time, end *time.Time) bool {
	return end != nil && next.After(*end)
}
