package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the generic success envelope used by flows that return
// no payload (logout, verification, OTP).
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
