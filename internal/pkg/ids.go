package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateMatchID - generates a unique identifier for a match.
func GenerateMatchID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate match id: %w", err)
	}

	return id.String(), nil
}

// GenerateSessionID - generates an identifier for a connected client.
func GenerateSessionID() string {
	return uuid.NewString()
}
