package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseMinutes converts an upstream minutes value to float minutes.
// nil and blank strings are 0. Strings of the form "MM:SS" keep only the minutes part; other strings and
// json.Number are parsed as plain numbers.
func ParseMinutes(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return parseMinuteString(v.String())
	case string:
		return parseMinuteString(v)
	default:
		return 0, fmt.Errorf("minutes: unsupported type %T", value)
	}
}

func parseMinuteString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if before, _, found := strings.Cut(s, ":"); found {
		s = strings.TrimSpace(before)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	return f, nil
}
