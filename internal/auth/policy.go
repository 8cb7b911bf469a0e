package auth

import (
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// passwordSymbols is the accepted punctuation set for the policy.
const passwordSymbols = `!@#$%^&*()+,.?":{}|<>`

const policyMessage = "password requires at least 8 characters, one uppercase letter, one lowercase letter, one digit and one symbol"

// ValidatePassword enforces the registration password policy: minimum 8
// characters with at least one digit, one lowercase letter, one uppercase
// letter and one symbol from the accepted set.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewPolicyViolation(policyMessage)
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	hasSymbol := strings.ContainsAny(password, passwordSymbols)
	if !hasDigit || !hasLower || !hasUpper || !hasSymbol {
		return apperrors.NewPolicyViolation(policyMessage)
	}
	return nil
}
