package models

// FoodActivityRequest is the body of a food submission.
type FoodActivityRequest struct {
	FoodName   string  `json:"food_name" binding:"required"`
	QuantityKg float64 `json:"quantity_kg" binding:"required"`
}

// ElectricityActivityRequest is the body of an electricity submission.
type ElectricityActivityRequest struct {
	UnitsKWh float64 `json:"units_kwh" binding:"required"`
}

// TravelActivityRequest is the body of a travel submission.
type TravelActivityRequest struct {
	Mode       string  `json:"mode" binding:"required"`
	DistanceKm float64 `json:"distance_km" binding:"required"`
}

// WasteActivityRequest is the body of a waste submission.
type WasteActivityRequest struct {
	QuantityKg float64 `json:"quantity_kg" binding:"required"`
}

// EmissionFactorRequest is the body of an emission factor upsert.
type EmissionFactorRequest struct {
	KgCO2PerKg float64 `json:"kg_co2_per_kg" binding:"required"`
}
