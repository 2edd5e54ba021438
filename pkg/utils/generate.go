package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateReference creates a human-readable reservation reference.
// Format: RES-YYYYMMDD-HHMMSS-XXXXXXXX. The suffix is eight hex chars
// drawn from a random UUID, wide enough that references minted in the
// same second do not collide.
func GenerateReference(now time.Time) string {
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := strings.ToUpper(uuid.NewString()[:8])

	return fmt.Sprintf("RES-%s-%s-%s", datePart, timePart, randomPart)
}
