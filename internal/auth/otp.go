package auth

import (
	"errors"

	"github.com/pquerna/otp/totp"
)

// DemoCode is the fixed literal accepted when no TOTP secret is
// configured. There is no real delivery channel; the demo flow just
// tells the user the code.
const DemoCode = "123456"

// ErrWrongCode rejects a verification attempt with a bad code.
var ErrWrongCode = errors.New("incorrect verification code")

// Verifier checks one-time codes. With a TOTP secret configured it
// validates real time-based codes; otherwise it accepts the demo
// literal only.
type Verifier struct {
	secret string
}

// NewVerifier creates a verifier. An empty secret selects demo mode.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks a six-digit code.
func (v *Verifier) Verify(code string) error {
	if v.secret != "" {
		if totp.Validate(code, v.secret) {
			return nil
		}
		return ErrWrongCode
	}
	if code == DemoCode {
		return nil
	}
	return ErrWrongCode
}
