// Package parser converts the loosely typed scalars found in JSON and YAML
// problem files into big integers.
package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ParseBigInt parses a big integer from a string or numeric value.
//
// Strings are decimal unless prefixed with 0x (hex) or 0b (binary); an
// optional leading sign and surrounding whitespace are accepted, as are
// underscores between digits. Floats are accepted only when integral.
func ParseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		return parseString(v)

	case json.Number:
		// json.Number preserves precision for large integers
		return parseString(string(v))

	case int:
		return big.NewInt(int64(v)), nil

	case int64:
		return big.NewInt(v), nil

	case uint64:
		return new(big.Int).SetUint64(v), nil

	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) {
			return nil, fmt.Errorf("invalid number format: %v is not an integer", v)
		}
		z, _ := new(big.Float).SetFloat64(v).Int(nil)
		return z, nil

	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("invalid number format: nil")
		}
		return new(big.Int).Set(v), nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}

func parseString(v string) (*big.Int, error) {
	s := strings.TrimSpace(v)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	base := 10
	switch lower := strings.ToLower(s); {
	case strings.HasPrefix(lower, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(lower, "0b"):
		base, s = 2, s[2:]
	}
	s = strings.ReplaceAll(s, "_", "")

	// SetString accepts its own sign, which would stack on the one above.
	if s == "" || strings.ContainsAny(s, "+-") {
		return nil, fmt.Errorf("invalid number format: %q", v)
	}
	z, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid number format: %q", v)
	}
	if neg {
		z.Neg(z)
	}
	return z, nil
}
