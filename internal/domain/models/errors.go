package models

import "errors"

var (
	// ErrInvalidQuantity indicates a negative, zero, or non-finite quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownFoodItem indicates the food is absent from the factor table.
	ErrUnknownFoodItem = errors.New("unknown food item")

	// ErrUnknownTravelMode is only returned when strict travel modes are enabled.
	ErrUnknownTravelMode = errors.New("unknown travel mode")

	// ErrPersistence wraps storage failures.
	ErrPersistence = errors.New("persistence failure")

	// ErrAdvisorService wraps language-model call failures.
	ErrAdvisorService = errors.New("advisor service failure")
)
