package utils

import "github.com/google/uuid"

// GenerateID returns a random identifier for requests and reports.
func GenerateID() string {
	return uuid.NewString()
}
