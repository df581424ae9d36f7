package repayment

import (
	"time"

	"p2p-lending-backend/pkg/id"
)

const daysPerMonth = 30

// MonthsFor is ceil(days/30), at least 1.
func MonthsFor(expectedReturnDays int) int {
	if expectedReturnDays <= 0 {
		return 1
	}
	return (expectedReturnDays + daysPerMonth - 1) / daysPerMonth
}

// AddMonthsClamped moves t forward by n calendar months, clamping the day to
// the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// BuildSchedule splits totalCents into monthly installments starting one
// month after start. The last installment absorbs the remainder so the
// amounts always sum to totalCents.
func BuildSchedule(borrowRequestID string, totalCents int64, expectedReturnDays int, start time.Time) []ScheduleItem {
	months := MonthsFor(expectedReturnDays)
	base := totalCents / int64(months)
	remainder := totalCents - base*int64(months)

	items := make([]ScheduleItem, 0, months)
	for i := 1; i <= months; i++ {
		amount := base
		if i == months {
			amount += remainder
		}
		items = append(items, ScheduleItem{
			ID:              id.New(),
			BorrowRequestID: borrowRequestID,
			DueDate:         AddMonthsClamped(start, i),
			AmountCents:     amount,
			Status:          ItemScheduled,
		})
	}
	return items
}
