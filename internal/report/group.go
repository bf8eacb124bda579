// Package report arranges parsed transactions for presentation and
// aggregates warning diagnostics. Everything here is derived data,
// recomputed on demand; nothing feeds back into the transaction records.
package report

import (
	"sort"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// GroupByDate arranges a flat transaction list into a year-month
// hierarchy: years descending, months within a year in reverse calendar
// order, transactions within a month in reverse chronological order.
// Records without a date are discarded defensively; the parser never
// emits them.
func GroupByDate(txns []models.Transaction) []models.YearGroup {
	type ym struct {
		year  int
		month int
	}
	buckets := make(map[ym][]models.Transaction)
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		k := ym{year: t.Date.Year(), month: int(t.Date.Month())}
		buckets[k] = append(buckets[k], t)
	}

	years := make(map[int][]int)
	for k := range buckets {
		years[k.year] = append(years[k.year], k.month)
	}

	yearKeys := make([]int, 0, len(years))
	for y := range years {
		yearKeys = append(yearKeys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yearKeys)))

	out := make([]models.YearGroup, 0, len(yearKeys))
	for _, y := range yearKeys {
		months := years[y]
		sort.Sort(sort.Reverse(sort.IntSlice(months)))

		yg := models.YearGroup{Year: y}
		for _, m := range months {
			list := buckets[ym{year: y, month: m}]
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].Date.After(list[j].Date)
			})
			yg.Months = append(yg.Months, models.MonthGroup{
				Month:        monthNames[m-1],
				Transactions: list,
			})
		}
		out = append(out, yg)
	}
	return out
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}
