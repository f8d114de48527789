package grid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidHour is wrapped by every hour parsing failure.
var ErrInvalidHour = errors.New("invalid hour")

var hourPattern = regexp.MustCompile(`^\s*(\d{1,2})\s*([ap]m)\s*$`)

// ParseHour parses a 12-hour clock hour such as "8am", "2 PM" or "12am"
// into a 24-hour value.
func ParseHour(s string) (int, error) {
	m := hourPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q is not a valid hour", ErrInvalidHour, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("%w: %q is not on the 12-hour clock", ErrInvalidHour, s)
	}
	am := m[2] == "am"

	switch {
	case n == 12 && am:
		return 0, nil
	case n == 12 || am:
		return n, nil
	default:
		return n + 12, nil
	}
}

// NormalizeEnding maps an ending hour at or before the starting hour to the
// next day, so that the returned value is always after start.
func NormalizeEnding(start, end int) int {
	if end <= start {
		return end + 24
	}
	return end
}

// HourSpec is an hour given either as a 24-hour number or as a 12-hour
// string ("8am"). The zero value means unset.
type HourSpec struct {
	value int
	set   bool
}

// Hour returns a set HourSpec for a 24-hour value.
func Hour(h int) HourSpec {
	return HourSpec{value: h, set: true}
}

// IsSet reports whether the spec carries a value.
func (h HourSpec) IsSet() bool { return h.set }

// Value returns the 24-hour value.
func (h HourSpec) Value() int { return h.value }

// UnmarshalYAML accepts a YAML integer or an am/pm string.
func (h *HourSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a number or string", ErrInvalidHour, node.Line)
	}

	if node.Tag == "!!int" {
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidHour, node.Line, err)
		}
		*h = Hour(n)
		return nil
	}
	if node.Tag == "!!null" {
		*h = HourSpec{}
		return nil
	}

	n, err := ParseHour(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*h = Hour(n)
	return nil
}

// MarshalYAML writes the spec back as a plain integer.
func (h HourSpec) MarshalYAML() (any, error) {
	if !h.set {
		return nil, nil
	}
	return h.value, nil
}
