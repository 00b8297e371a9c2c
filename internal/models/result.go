// ABOUTME: Result type returned by every store mutation.
// ABOUTME: Carries success, a user-facing message, and the ID of created entities.
package models

// Result reports the outcome of a store operation. Expected failures such
// as validation errors or missing IDs are reported here, never as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Ok returns a successful Result.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// OkWithID returns a successful Result for a newly created entity.
func OkWithID(message, id string) Result {
	return Result{Success: true, Message: message, ID: id}
}

// Fail returns a failed Result.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
