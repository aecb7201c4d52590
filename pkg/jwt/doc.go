// Package jwt provides JSON Web Token utilities for the Raid Ledger API.
//
// The jwt package handles token signing, validation, and claims
// extraction for authentication. Tokens are signed with RS256 so other
// services can validate with only the public key.
//
// # Token Signing
//
// Sign tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/jwt_private.pem",
//	    PublicKeyPath:  "keys/jwt_public.pem",
//	    Issuer:         "raidledger-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    Subject:  user.ID,
//	    UserID:   user.ID,
//	    Email:    user.Email,
//	    Username: user.Username,
//	})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// A service constructed with only PublicKeyPath can validate but not
// sign, for validation-only deployments.
//
// # Key Generation
//
// GenerateKeyPair writes a fresh RSA key pair to disk:
//
//	err := jwt.GenerateKeyPair("keys/jwt_private.pem", "keys/jwt_public.pem")
package jwt
