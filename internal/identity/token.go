package identity

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"

	"quiz-portal/internal/domain"
)

// TokenParser verifies ID tokens and extracts the claims the portal cares
// about. The groups claim name is configurable because providers disagree on
// it (Cognito uses "cognito:groups").
type TokenParser struct {
	secret      []byte
	groupsClaim string
}

func NewTokenParser(secret, groupsClaim string) *TokenParser {
	if groupsClaim == "" {
		groupsClaim = "cognito:groups"
	}
	return &TokenParser{secret: []byte(secret), groupsClaim: groupsClaim}
}

// Parse validates the token signature and maps its claims onto a Principal.
// The raw token is kept on the principal as the bearer token for gateway
// calls.
func (p *TokenParser) Parse(rawToken string) (domain.Principal, error) {
	token, err := jwt.ParseWithClaims(rawToken, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse id token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, fmt.Errorf("invalid id token claims")
	}

	principal := domain.Principal{Token: rawToken}
	if sub, ok := (*claims)["sub"].(string); ok {
		principal.Subject = sub
	}
	if email, ok := (*claims)["email"].(string); ok {
		principal.Email = email
	}
	principal.Groups = stringSlice((*claims)[p.groupsClaim])
	return principal, nil
}

// stringSlice tolerates both []interface{} (decoded JSON) and []string.
func stringSlice(v interface{}) []string {
	switch raw := v.(type) {
	case []string:
		return raw
	case []interface{}:
		groups := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				groups = append(groups, s)
			}
		}
		return groups
	default:
		return nil
	}
}
