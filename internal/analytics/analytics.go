// Package analytics aggregates reconciliations and imprests for dashboards.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type VarianceSummary struct {
	Count         int
	ByCategory    map[reconciliation.VarianceCategory]int
	TotalShortage decimal.Decimal
	TotalOverage  decimal.Decimal
	NetVariance   decimal.Decimal
	TotalSales    decimal.Decimal
}

// SummarizeVariance counts reconciliations per category. TotalShortage is
// reported as a positive amount.
func SummarizeVariance(recs []*reconciliation.Reconciliation) VarianceSummary {
	s := VarianceSummary{ByCategory: make(map[reconciliation.VarianceCategory]int, len(reconciliation.Categories))}
	for _, c := range reconciliation.Categories {
		s.ByCategory[c] = 0
	}

	for _, r := range recs {
		s.Count++
		s.ByCategory[r.VarianceCategory]++
		s.TotalSales = s.TotalSales.Add(r.TotalSales)
		s.NetVariance = s.NetVariance.Add(r.OverageShortage)

		switch {
		case r.OverageShortage.IsNegative():
			s.TotalShortage = s.TotalShortage.Add(r.OverageShortage.Neg())
		case r.OverageShortage.IsPositive():
			s.TotalOverage = s.TotalOverage.Add(r.OverageShortage)
		}
	}

	return s
}

type DayPoint struct {
	Date        time.Time
	Count       int
	TotalSales  decimal.Decimal
	NetVariance decimal.Decimal
}

// DailyTrend buckets reconciliations by reconciliation date, oldest first.
func DailyTrend(recs []*reconciliation.Reconciliation) []DayPoint {
	byDay := make(map[string]*DayPoint)

	for _, r := range recs {
		key := r.Date.Format(time.DateOnly)

		p, ok := byDay[key]
		if !ok {
			y, m, d := r.Date.Date()
			p = &DayPoint{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
			byDay[key] = p
		}

		p.Count++
		p.TotalSales = p.TotalSales.Add(r.TotalSales)
		p.NetVariance = p.NetVariance.Add(r.OverageShortage)
	}

	points := make([]DayPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return points
}

type ImprestSummary struct {
	Count        int
	TotalIssued  decimal.Decimal
	TotalSpent   decimal.Decimal
	TotalBalance decimal.Decimal
	// Outstanding is the amount still held on unretired imprests.
	Outstanding  decimal.Decimal
	IssuedCount  int
	RetiredCount int
	OverdueCount int
	ByCategory   map[string]decimal.Decimal
}

// SummarizeImprests expects statuses already resolved, so OVERDUE is counted
// as reported.
func SummarizeImprests(imprests []*imprest.Imprest) ImprestSummary {
	s := ImprestSummary{ByCategory: make(map[string]decimal.Decimal)}

	for _, im := range imprests {
		s.Count++
		s.TotalIssued = s.TotalIssued.Add(im.Amount)
		s.ByCategory[im.Category] = s.ByCategory[im.Category].Add(im.Amount)

		switch im.Status {
		case imprest.StatusRetired:
			s.RetiredCount++
			s.TotalSpent = s.TotalSpent.Add(im.AmountSpent.Decimal)
			s.TotalBalance = s.TotalBalance.Add(im.Balance.Decimal)
		case imprest.StatusOverdue:
			s.OverdueCount++
			s.Outstanding = s.Outstanding.Add(im.Amount)
		default:
			s.IssuedCount++
			s.Outstanding = s.Outstanding.Add(im.Amount)
		}
	}

	return s
}
