package jwttoken

import (
	authmw "regnet/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims projects token claims onto the caller identity the auth
// middleware places on the request context.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		CallerID: claims.Subject,
		Role:     claims.Role,
		JTI:      claims.ID,
	}
}

// JWTServiceAdapter satisfies authmw.JWTValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

// ValidateToken verifies signature, issuer, audience and expiry, then maps
// the result for the middleware.
func (a *JWTServiceAdapter) ValidateToken(token string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
