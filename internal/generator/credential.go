package generator

import (
	"fmt"
	"strings"
)

// CredentialRule is the lexical shape a token must have. A zero Length
// disables the length check.
type CredentialRule struct {
	Prefix string
	Length int
}

// ReplicateRule matches Replicate API tokens.
var ReplicateRule = CredentialRule{Prefix: "r8_", Length: 40}

// ValidateCredential checks the token shape without contacting any service.
func ValidateCredential(token string, rule CredentialRule) error {
	if token == "" {
		return &InvalidCredentialError{Reason: "token is empty"}
	}
	if !strings.HasPrefix(token, rule.Prefix) {
		return &InvalidCredentialError{Reason: fmt.Sprintf("token must start with %q", rule.Prefix)}
	}
	if rule.Length > 0 && len(token) != rule.Length {
		return &InvalidCredentialError{Reason: fmt.Sprintf("token must be exactly %d characters, got %d", rule.Length, len(token))}
	}
	return nil
}
