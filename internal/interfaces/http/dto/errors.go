package dto

import "net/http"

// Error codes sent in the error envelope. Domain errors keep their own
// code on the wire.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeDataFetch is used when the catalog could not be read
	ErrCodeDataFetch = "DATA_FETCH_ERROR"
)

// Input error codes
const (
	// ErrCodeValidation is used when the request or the buyer form is invalid
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidQuantity is used when a quantity is below one
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	// ErrCodeRequestTooLarge is used when the body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a product, category or flavor is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// Business rule error codes
const (
	// ErrCodeEmptyCart is used when checking out an empty cart
	ErrCodeEmptyCart = "EMPTY_CART"
	// ErrCodeFlavorRequired is used when a flavored product is added without flavor
	ErrCodeFlavorRequired = "FLAVOR_REQUIRED"
	// ErrCodeInsufficientStock is used when a line would exceed the stock
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	// ErrCodeInvalidState is used when a checkout transition is not allowed
	ErrCodeInvalidState = "INVALID_STATE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:  http.StatusInternalServerError,
	ErrCodeDataFetch: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidQuantity: http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound: http.StatusNotFound,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeEmptyCart:         http.StatusUnprocessableEntity,
	ErrCodeFlavorRequired:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
