package medichain

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of issued session tokens. Subject carries the
// account's internal id; UID is only set on signup tokens.
type Claims struct {
	UID  string `json:"uid,omitempty"`
	Role Role   `json:"role"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies session tokens. Signup and login
// tokens have independently configured lifetimes.
type TokenIssuer struct {
	secret     []byte
	signupTTL  time.Duration
	sessionTTL time.Duration
}

func NewTokenIssuer(secret string, signupTTL, sessionTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), signupTTL: signupTTL, sessionTTL: sessionTTL}
}

// IssueSignup binds {id, role, uid} with the signup lifetime.
func (t *TokenIssuer) IssueSignup(acc *Account) (string, error) {
	return t.issue(acc, acc.UID, t.signupTTL)
}

// IssueSession binds {id, role} with the session lifetime.
func (t *TokenIssuer) IssueSession(acc *Account) (string, error) {
	return t.issue(acc, "", t.sessionTTL)
}

func (t *TokenIssuer) issue(acc *Account, uid string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: acc.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    "medichain",
			Subject:   string(acc.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a token string and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
