package models

import "strings"

// EmissionFactor maps a food item to its kg CO₂ per kg.
type EmissionFactor struct {
	FoodName   string  `bson:"food_name" json:"food_name"`
	KgCO2PerKg float64 `bson:"kg_co2_per_kg" json:"kg_co2_per_kg"`
}

// NormalizeFoodName is the canonical form used for lookups and uniqueness.
func NormalizeFoodName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultEmissionFactors seeds an empty factor table.
var DefaultEmissionFactors = []EmissionFactor{
	{FoodName: "beef", KgCO2PerKg: 27.0},
	{FoodName: "lamb", KgCO2PerKg: 39.2},
	{FoodName: "cheese", KgCO2PerKg: 13.5},
	{FoodName: "pork", KgCO2PerKg: 12.1},
	{FoodName: "chicken", KgCO2PerKg: 6.9},
	{FoodName: "fish", KgCO2PerKg: 6.1},
	{FoodName: "eggs", KgCO2PerKg: 4.8},
	{FoodName: "rice", KgCO2PerKg: 2.7},
	{FoodName: "milk", KgCO2PerKg: 1.9},
	{FoodName: "vegetables", KgCO2PerKg: 2.0},
	{FoodName: "lentils", KgCO2PerKg: 0.9},
}
