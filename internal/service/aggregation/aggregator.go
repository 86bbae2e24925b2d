package aggregation

import (
	"sort"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

// RecordSet groups one user's records by category, as fetched from the ledger.
type RecordSet map[models.Category][]models.ActivityRecord

// CategoryTotal sums the carbon of records. An empty slice totals zero.
func CategoryTotal(records []models.ActivityRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.CarbonKg
	}
	return total
}

// GrandTotal adds the four category totals.
func GrandTotal(totals map[models.Category]float64) float64 {
	var total float64
	for _, c := range models.Categories {
		total += totals[c]
	}
	return total
}

// DailyTotals merges the records of every given slice, sums carbon per
// calendar day and returns the days in ascending order.
func DailyTotals(groups ...[]models.ActivityRecord) []models.DailyTotal {
	byDay := make(map[int64]*models.DailyTotal)
	for _, records := range groups {
		for _, r := range records {
			day := models.DateOf(r.Date, nil)
			key := day.Unix()
			entry, ok := byDay[key]
			if !ok {
				entry = &models.DailyTotal{Date: day}
				byDay[key] = entry
			}
			entry.CarbonKg += r.CarbonKg
		}
	}

	daily := make([]models.DailyTotal, 0, len(byDay))
	for _, entry := range byDay {
		daily = append(daily, *entry)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })
	return daily
}

// ComputeTrend compares the first and last day of an ascending daily series.
// Fewer than two days yields TrendInsufficientData. A zero first day yields a
// zero percent rather than an infinite one.
func ComputeTrend(daily []models.DailyTotal) models.Trend {
	if len(daily) < 2 {
		return models.Trend{Status: models.TrendInsufficientData}
	}

	first, last := daily[0], daily[len(daily)-1]
	trend := models.Trend{
		FirstDate:  first.Date,
		LastDate:   last.Date,
		FirstTotal: first.CarbonKg,
		LastTotal:  last.CarbonKg,
	}

	if first.CarbonKg != 0 {
		trend.Percent = (last.CarbonKg - first.CarbonKg) / first.CarbonKg * 100
	}

	if trend.Percent < 0 {
		trend.Status = models.TrendImprovement
	} else {
		trend.Status = models.TrendRegression
	}
	return trend
}

// Summarize rolls one user's records into an AggregateSummary.
func Summarize(userID string, set RecordSet) models.AggregateSummary {
	summary := models.AggregateSummary{
		UserID: userID,
		Totals: make(map[models.Category]float64, len(models.Categories)),
		Shares: make(map[models.Category]float64, len(models.Categories)),
	}

	groups := make([][]models.ActivityRecord, 0, len(models.Categories))
	for _, c := range models.Categories {
		records := set[c]
		summary.Totals[c] = CategoryTotal(records)
		summary.Records += len(records)
		groups = append(groups, records)
	}
	summary.GrandTotal = GrandTotal(summary.Totals)

	for _, c := range models.Categories {
		if summary.GrandTotal > 0 {
			summary.Shares[c] = summary.Totals[c] / summary.GrandTotal * 100
		} else {
			summary.Shares[c] = 0
		}
	}

	summary.Daily = DailyTotals(groups...)
	summary.Trend = ComputeTrend(summary.Daily)
	summary.TrendText = summary.Trend.Message()
	return summary
}
