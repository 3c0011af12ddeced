package token

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	xerrors "storefront-service/internal/pkg/errors"
)

var expirationPattern = regexp.MustCompile(`^(\d+)([smhdw])$`)

// ParseExpiration parses a compact lifetime string such as "10s", "5m",
// "2h", "1d" or "1w" into a duration. Lifetimes come from configuration
// and are parsed once at startup; a malformed string is a configuration
// defect, never a request-time error.
func ParseExpiration(s string) (time.Duration, error) {
	matches := expirationPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q (expected format: 10s, 5m, 2h, 1d, 1w)", xerrors.ErrInvalidDurationFormat, s)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", xerrors.ErrInvalidDurationFormat, s)
	}

	switch matches[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "w":
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	default:
		// Unreachable: the pattern constrains the unit. Kept so a future
		// pattern change cannot silently mint mis-sized lifetimes.
		return 0, fmt.Errorf("%w: %q", xerrors.ErrUnknownTimeUnit, matches[2])
	}
}
