package models

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// Validation errors for AddressInput.
var (
	ErrInvalidPrefecture = errors.New("prefecture must be one of the 47 Japanese prefectures")
	ErrInvalidPostalCode = errors.New("postal code must be 7 digits with an optional hyphen")
)

var postalCodePattern = regexp.MustCompile(`^(\d{3})-?(\d{4})$`)

// AddressInput holds the structured address fields of a store submission.
// BuildingLine is shown to users but never sent to a geocoder.
type AddressInput struct {
	PostalCode   string `json:"postal_code"`
	Prefecture   string `json:"prefecture"`
	CityTown     string `json:"city_town"`
	Street       string `json:"street"`
	BuildingLine string `json:"building_line"`
}

// Validate checks the prefecture against the fixed set and the postal code shape, if one is given.
func (a AddressInput) Validate() error {
	if !IsPrefecture(strings.TrimSpace(a.Prefecture)) {
		return ErrInvalidPrefecture
	}

	if strings.TrimSpace(a.PostalCode) != "" && CanonicalPostalCode(a.PostalCode) == "" {
		return ErrInvalidPostalCode
	}

	return nil
}

// SameLocation reports whether two inputs send the same fields to a geocoder. BuildingLine and
// surrounding whitespace are ignored.
func (a AddressInput) SameLocation(other AddressInput) bool {
	return strings.TrimSpace(a.PostalCode) == strings.TrimSpace(other.PostalCode) &&
		strings.TrimSpace(a.Prefecture) == strings.TrimSpace(other.Prefecture) &&
		strings.TrimSpace(a.CityTown) == strings.TrimSpace(other.CityTown) &&
		strings.TrimSpace(a.Street) == strings.TrimSpace(other.Street)
}

// Equal reports whether two inputs carry the same address, building line included.
// Surrounding whitespace is ignored.
func (a AddressInput) Equal(other AddressInput) bool {
	return a.SameLocation(other) && strings.TrimSpace(a.BuildingLine) == strings.TrimSpace(other.BuildingLine)
}

// CanonicalPostalCode returns code as "NNN-NNNN", or "" if it is not a 7-digit postal code.
// Full-width digits and hyphen are accepted.
func CanonicalPostalCode(code string) string {
	code = strings.TrimSpace(width.Fold.String(code))
	code = strings.TrimPrefix(code, "〒")
	code = strings.NewReplacer("ー", "-", "−", "-", "‐", "-").Replace(strings.TrimSpace(code))

	m := postalCodePattern.FindStringSubmatch(code)
	if m == nil {
		return ""
	}

	return m[1] + "-" + m[2]
}
