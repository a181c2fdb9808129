package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time source for
// deterministic tests. Production code uses NewJWTService.
func NewTestJWTService(secret string, tokenLifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}
}
