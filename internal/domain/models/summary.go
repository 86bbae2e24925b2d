package models

import (
	"fmt"
	"math"
	"time"
)

// TrendStatus classifies the change between the first and last observed day.
type TrendStatus string

const (
	TrendInsufficientData TrendStatus = "insufficient_data"
	TrendImprovement      TrendStatus = "improvement"
	TrendRegression       TrendStatus = "regression"
)

// DailyTotal is the summed carbon of one calendar day.
type DailyTotal struct {
	Date     time.Time `json:"date"`
	CarbonKg float64   `json:"carbon_kg"`
}

// Trend is the percent change of daily totals over the observed range.
type Trend struct {
	Status     TrendStatus `json:"status"`
	Percent    float64     `json:"percent"`
	FirstDate  time.Time   `json:"first_date,omitempty"`
	LastDate   time.Time   `json:"last_date,omitempty"`
	FirstTotal float64     `json:"first_total"`
	LastTotal  float64     `json:"last_total"`
}

// Message renders the user-visible progress line.
func (t Trend) Message() string {
	switch t.Status {
	case TrendImprovement:
		return fmt.Sprintf("Emissions reduced by %.2f%%", math.Abs(t.Percent))
	case TrendRegression:
		return fmt.Sprintf("Emissions increased by %.2f%%", t.Percent)
	default:
		return "Not enough data yet."
	}
}

// AggregateSummary is the derived per-user rollup. It is never persisted.
type AggregateSummary struct {
	UserID     string               `json:"user_id"`
	Totals     map[Category]float64 `json:"totals"`
	Shares     map[Category]float64 `json:"shares"`
	GrandTotal float64              `json:"grand_total"`
	Records    int                  `json:"records"`
	Daily      []DailyTotal         `json:"daily"`
	Trend      Trend                `json:"trend"`
	TrendText  string               `json:"trend_message"`
}

// Total returns the total of one category, zero when absent.
func (s AggregateSummary) Total(c Category) float64 {
	return s.Totals[c]
}
