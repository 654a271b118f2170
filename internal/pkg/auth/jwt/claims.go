package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for PairChat.
// It includes standard claims required by the JWT specification and the custom
// claim naming the authenticated identity.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// Username is the stable identity string of the authenticated participant.
	// Everything downstream (presence, rooms, history) keys on this value.
	Username string `json:"username"`
}
