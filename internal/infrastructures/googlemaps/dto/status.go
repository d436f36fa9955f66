package dto

const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)
