// Package sky holds equatorial sky positions and their parsing.
package sky

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoord indicates a coordinate that cannot be parsed or is out of range.
var ErrInvalidCoord = errors.New("invalid sky coordinate")

// Coord is an ICRS position in decimal degrees.
type Coord struct {
	RA  float64
	Dec float64
}

// New returns a validated Coord.
func New(ra, dec float64) (Coord, error) {
	c := Coord{RA: ra, Dec: dec}
	if err := c.Validate(); err != nil {
		return Coord{}, err
	}
	return c, nil
}

// Validate checks 0 <= RA < 360 and -90 <= Dec <= 90.
func (c Coord) Validate() error {
	if math.IsNaN(c.RA) || c.RA < 0 || c.RA >= 360 {
		return fmt.Errorf("%w: ra %v outside [0, 360)", ErrInvalidCoord, c.RA)
	}
	if math.IsNaN(c.Dec) || c.Dec < -90 || c.Dec > 90 {
		return fmt.Errorf("%w: dec %v outside [-90, 90]", ErrInvalidCoord, c.Dec)
	}
	return nil
}

func (c Coord) String() string {
	return fmt.Sprintf("%.6f,%+.6f", c.RA, c.Dec)
}

// Parse reads a right ascension and declination. Each value is either decimal
// degrees ("3.5896") or sexagesimal with colons or spaces: RA in hours
// ("00:14:21.5"), Dec in degrees ("-30:23:50").
func Parse(ra, dec string) (Coord, error) {
	r, err := ParseRA(ra)
	if err != nil {
		return Coord{}, err
	}
	d, err := ParseDec(dec)
	if err != nil {
		return Coord{}, err
	}
	return New(r, d)
}

// ParseRA parses a right ascension into degrees.
func ParseRA(s string) (float64, error) {
	fields := splitSexagesimal(s)
	switch len(fields) {
	case 1:
		return parseFloat(fields[0], s)
	case 2, 3:
		h, err := sexagesimal(fields, s)
		if err != nil {
			return 0, err
		}
		if h < 0 {
			return 0, fmt.Errorf("%w: negative right ascension %q", ErrInvalidCoord, s)
		}
		return h * 15, nil
	default:
		return 0, fmt.Errorf("%w: cannot parse right ascension %q", ErrInvalidCoord, s)
	}
}

// ParseDec parses a declination into degrees.
func ParseDec(s string) (float64, error) {
	fields := splitSexagesimal(s)
	switch len(fields) {
	case 1:
		return parseFloat(fields[0], s)
	case 2, 3:
		return sexagesimal(fields, s)
	default:
		return 0, fmt.Errorf("%w: cannot parse declination %q", ErrInvalidCoord, s)
	}
}

func splitSexagesimal(s string) []string {
	s = strings.TrimSpace(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == ' ' || r == 'h' || r == 'm' || r == 's' || r == 'd'
	})
}

// sexagesimal combines [sign]units, minutes and optional seconds. The sign is
// taken from the leading field so "-00:30:00" stays negative.
func sexagesimal(fields []string, orig string) (float64, error) {
	neg := strings.HasPrefix(fields[0], "-")
	var total float64
	scale := 1.0
	for i, f := range fields {
		v, err := parseFloat(f, orig)
		if err != nil {
			return 0, err
		}
		if i > 0 && (v < 0 || v >= 60) {
			return 0, fmt.Errorf("%w: component %q out of range in %q", ErrInvalidCoord, f, orig)
		}
		total += math.Abs(v) / scale
		scale *= 60
	}
	if neg {
		total = -total
	}
	return total, nil
}

func parseFloat(f, orig string) (float64, error) {
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse %q", ErrInvalidCoord, orig)
	}
	return v, nil
}
