package auth

import (
	"fmt"
	"strings"

	"github.com/rcornejom06/authcore/internal/common"
)

// ParseBearer extracts the token from "Bearer <token>". The scheme is matched
// case-insensitively and exactly one non-empty token must follow it.
func ParseBearer(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], common.BearerScheme) {
		return "", fmt.Errorf("expected %q scheme with one token: %w", common.BearerScheme, common.ErrMalformedAuthHeader)
	}
	return fields[1], nil
}
