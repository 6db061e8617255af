package utils

import "github.com/google/uuid"

// RequestID returns the incoming id when it looks sane, otherwise a fresh one.
func RequestID(incoming string) string {
	if incoming != "" && len(incoming) <= 64 {
		return incoming
	}
	return uuid.NewString()
}
