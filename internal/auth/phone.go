package auth

import (
	"errors"
	"regexp"
)

// ErrInvalidPhone rejects a phone number that is not at least ten digits.
var ErrInvalidPhone = errors.New("invalid phone number")

var phoneRe = regexp.MustCompile(`^[0-9]{10,}$`)

// ValidatePhone checks the national part of a phone number (digits only,
// minimum ten). The country prefix is validated by selection, not here.
func ValidatePhone(number string) error {
	if !phoneRe.MatchString(number) {
		return ErrInvalidPhone
	}
	return nil
}

// CountryCode is a dialing prefix option offered on the login form.
type CountryCode struct {
	Name string
	Code string
}

// DefaultCountryCodes is the built-in dialing prefix list. A remote
// country directory is deliberately not consulted; the list can be
// overridden from config.
var DefaultCountryCodes = []CountryCode{
	{Name: "Brazil", Code: "+55"},
	{Name: "Germany", Code: "+49"},
	{Name: "India", Code: "+91"},
	{Name: "Portugal", Code: "+351"},
	{Name: "United Kingdom", Code: "+44"},
	{Name: "United States", Code: "+1"},
}
