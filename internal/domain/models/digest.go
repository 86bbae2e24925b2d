package models

import "time"

// DigestRow is one user's line of the weekly digest export.
type DigestRow struct {
	Date         time.Time   `json:"date"`
	UserID       string      `json:"user_id"`
	Food         float64     `json:"food"`
	Electricity  float64     `json:"electricity"`
	Travel       float64     `json:"travel"`
	Waste        float64     `json:"waste"`
	Total        float64     `json:"total"`
	TrendStatus  TrendStatus `json:"trend_status"`
	TrendPercent float64     `json:"trend_percent"`
}

// NewDigestRow flattens a summary into a digest line dated at.
func NewDigestRow(at time.Time, summary AggregateSummary) DigestRow {
	return DigestRow{
		Date:         at,
		UserID:       summary.UserID,
		Food:         summary.Total(CategoryFood),
		Electricity:  summary.Total(CategoryElectricity),
		Travel:       summary.Total(CategoryTravel),
		Waste:        summary.Total(CategoryWaste),
		Total:        summary.GrandTotal,
		TrendStatus:  summary.Trend.Status,
		TrendPercent: summary.Trend.Percent,
	}
}
