package utils

import (
	"github.com/google/uuid"
)

// NewRequestID generates a UUID string used to correlate log lines of one request.
func NewRequestID() string {
	return uuid.NewString()
}
