package auth

import (
	"strings"
)

// TokenType is returned alongside every access token.
const TokenType = "bearer"

// credentialsMessage is used for every login failure so unknown emails and
// wrong passwords look the same.
const credentialsMessage = "invalid email or password"

// NormaliseEmail trims and lowercases an email address.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormaliseInterests trims, drops blanks and de-duplicates case-insensitively,
// keeping the first spelling. The result is never nil.
func NormaliseInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
