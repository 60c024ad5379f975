package validators

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum number of characters a password
// must contain to pass the policy.
const MinPasswordLength = 8

// similarityThreshold is the minimal share of the password that must be
// covered by an identity attribute for the password to count as
// "too similar" to it.
const similarityThreshold = 0.7

// PasswordPolicy enforces the password strength rules applied on
// registration and on password change.
//
// Rules, checked in order:
//  1. at least MinPasswordLength characters
//  2. not entirely numeric
//  3. not too similar to the user's identity attributes (username, email)
//  4. not present in the common-passwords list
//
// The first violated rule's error is returned.
type PasswordPolicy struct {
	MinLength int
}

// NewPasswordPolicy constructs a PasswordPolicy with the default
// minimum length.
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{MinLength: MinPasswordLength}
}

// Validate checks the given password against the policy. The variadic
// identity values are the user's attributes (username, email) that the
// password must not resemble; empty values are skipped.
func (p *PasswordPolicy) Validate(password string, identity ...string) error {
	if len(password) < p.MinLength {
		return ErrPasswordTooShort
	}

	if isEntirelyNumeric(password) {
		return ErrPasswordEntirelyNumeric
	}

	for _, attribute := range identity {
		if isTooSimilar(password, attribute) {
			return ErrPasswordTooSimilar
		}
	}

	if _, found := commonPasswords[strings.ToLower(password)]; found {
		return ErrPasswordTooCommon
	}

	return nil
}

// isEntirelyNumeric reports whether every rune of the password is a digit.
func isEntirelyNumeric(password string) bool {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isTooSimilar reports whether the password resembles the given identity
// attribute. The attribute is split into parts (an email is compared both
// whole and by its local part and domain labels); a part of four or more
// characters that covers at least similarityThreshold of the password, or
// contains the password, makes the pair too similar.
func isTooSimilar(password, attribute string) bool {
	attribute = strings.TrimSpace(strings.ToLower(attribute))
	if attribute == "" {
		return false
	}
	lowered := strings.ToLower(password)

	for _, part := range identityParts(attribute) {
		if len(part) < 4 {
			continue
		}
		if strings.Contains(part, lowered) {
			return true
		}
		if strings.Contains(lowered, part) &&
			float64(len(part))/float64(len(lowered)) >= similarityThreshold {
			return true
		}
	}

	return false
}

// identityParts breaks an identity attribute into comparable chunks:
// the whole value plus every fragment between separators ('@', '.',
// '-', '_', '+').
func identityParts(attribute string) []string {
	parts := []string{attribute}
	parts = append(parts, strings.FieldsFunc(attribute, func(r rune) bool {
		switch r {
		case '@', '.', '-', '_', '+':
			return true
		}
		return false
	})...)
	return parts
}
