// Package api holds the wire types shared by all HTTP handlers.
package api

// Error is the common error envelope.
type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Fail builds an error envelope for a handler response.
func Fail(msg string) Error {
	return Error{Success: false, Error: msg}
}
