// Package tzmatch resolves operator-typed city names against the device's
// timezone list.
package tzmatch

import (
	"errors"
	"fmt"
	"strings"

	lev "github.com/agnivade/levenshtein"

	"github.com/rook-computer/clockmirror/internal/device"
)

// Kind reports which rule produced a match.
type Kind int

const (
	Exact Kind = iota
	CityOnly
	Fuzzy
	Custom
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case CityOnly:
		return "city"
	case Fuzzy:
		return "fuzzy"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// MaxDistance bounds the edit distance accepted for a fuzzy match.
const MaxDistance = 2

var (
	ErrNoMatch   = errors.New("no matching timezone")
	ErrAmbiguous = errors.New("ambiguous timezone name")
)

// Result is a resolved city ready to send to the device.
type Result struct {
	City     device.City
	Zone     device.Timezone
	Kind     Kind
	Distance int
}

// CityName returns the part of a timezone name before the first comma,
// e.g. "Sydney" for "Sydney, Australia".
func CityName(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Resolve matches query against zones. A query of the form "Label=RULE"
// bypasses the list and yields a custom city. Otherwise the full name is
// tried first, then the city alone ignoring case, then the closest city by
// edit distance.
func Resolve(zones []device.Timezone, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("%w: empty name", ErrNoMatch)
	}
	if label, rule, ok := strings.Cut(query, "="); ok {
		label, rule = strings.TrimSpace(label), strings.TrimSpace(rule)
		if label == "" || rule == "" {
			return Result{}, fmt.Errorf("custom city %q needs both a label and a TZ rule", query)
		}
		return Result{City: device.City{Label: label, TZ: rule}, Kind: Custom}, nil
	}

	for _, z := range zones {
		if z.Name == query {
			return result(z, Exact, 0), nil
		}
	}

	city := CityName(query)
	for _, z := range zones {
		if strings.EqualFold(CityName(z.Name), city) {
			return result(z, CityOnly, 0), nil
		}
	}

	want := strings.ToLower(city)
	best, bestDist, tied := -1, MaxDistance+1, false
	for i, z := range zones {
		d := lev.ComputeDistance(want, strings.ToLower(CityName(z.Name)))
		switch {
		case d < bestDist:
			best, bestDist, tied = i, d, false
		case d == bestDist && best >= 0 && zones[best].TZ != z.TZ:
			tied = true
		}
	}
	if best < 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	if tied {
		return Result{}, fmt.Errorf("%w: %q", ErrAmbiguous, query)
	}
	return result(zones[best], Fuzzy, bestDist), nil
}

// ResolveAll resolves every query and stops at the first failure.
func ResolveAll(zones []device.Timezone, queries []string) ([]Result, error) {
	out := make([]Result, 0, len(queries))
	for _, q := range queries {
		r, err := Resolve(zones, q)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func result(z device.Timezone, kind Kind, dist int) Result {
	return Result{
		City:     device.City{Label: CityName(z.Name), TZ: z.TZ},
		Zone:     z,
		Kind:     kind,
		Distance: dist,
	}
}
