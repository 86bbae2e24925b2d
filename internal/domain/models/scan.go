package models

// WasteClassification is what a classifier infers from a waste photo.
type WasteClassification struct {
	Material       string  `json:"material"`
	WeightKg       float64 `json:"estimated_weight"`
	EmissionFactor float64 `json:"emission_factor"`
}

// WasteScanResult adds the derived carbon estimate to a classification.
type WasteScanResult struct {
	WasteClassification
	CarbonKg float64 `json:"carbon_emission"`
	Note     string  `json:"note"`
}

// AdviceRequest is the body accepted by the advisor chat endpoint.
type AdviceRequest struct {
	Message string `json:"message" binding:"required"`
}

// AdviceResponse is the body returned by the advisor chat endpoint.
type AdviceResponse struct {
	Reply string `json:"reply"`
}
