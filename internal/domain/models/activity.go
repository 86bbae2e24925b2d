package models

import (
	"strings"
	"time"
)

// Category enumerates the supported activity kinds.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryElectricity Category = "electricity"
	CategoryTravel      Category = "travel"
	CategoryWaste       Category = "waste"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryFood, CategoryElectricity, CategoryTravel, CategoryWaste}

// ParseCategory resolves a free-form category name.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.TrimSpace(strings.ToLower(value)))
	for _, c := range Categories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// ActivityRecord is one immutable logged activity. CarbonKg is computed once
// when the record is built and is never recomputed.
type ActivityRecord struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Category  Category  `bson:"category" json:"category"`
	CarbonKg  float64   `bson:"carbon_kg" json:"carbon_kg"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Food
	FoodName       string  `bson:"food_name,omitempty" json:"food_name,omitempty"`
	EmissionFactor float64 `bson:"emission_factor,omitempty" json:"emission_factor,omitempty"`

	// Food and waste
	QuantityKg float64 `bson:"quantity_kg,omitempty" json:"quantity_kg,omitempty"`

	// Electricity
	UnitsKWh float64 `bson:"units_kwh,omitempty" json:"units_kwh,omitempty"`

	// Travel
	Mode       string  `bson:"mode,omitempty" json:"mode,omitempty"`
	DistanceKm float64 `bson:"distance_km,omitempty" json:"distance_km,omitempty"`
}

// DateOf truncates a timestamp to the calendar day it falls on in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
