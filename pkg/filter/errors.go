package filter

import "errors"

var (
	// ErrNoMatchingStories is returned when a story selection resolves to no IfcBuildingStorey.
	ErrNoMatchingStories = errors.New("no matching stories")

	// ErrMalformedModel is returned when the source model lacks a structure the filter
	// depends on, such as the IfcProject or a grouping target.
	ErrMalformedModel = errors.New("malformed model")

	ErrInvalidCriteria = errors.New("invalid criteria")
)
