package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/models"
)

// ErrUnknownEmail is returned by Issue when no user record matches the
// requested email. The handler answers with a 403 and an empty accessToken.
var ErrUnknownEmail = errors.New("no user with that email")

const tokenTTL = 24 * time.Hour

// TokenService signs and verifies the bearer tokens used across the API.
// Tokens carry a single email claim.
type TokenService struct {
	secret []byte
	users  *mongo.Collection
}

func NewTokenService(secret string, users *mongo.Collection) *TokenService {
	return &TokenService{secret: []byte(secret), users: users}
}

// Issue generates a signed token for an existing user's email.
func (s *TokenService) Issue(ctx context.Context, email string) (string, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUnknownEmail
		}
		return "", httperr.Unavailable("service unavailable")
	}

	return s.sign(email)
}

func (s *TokenService) sign(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token and returns the email it was issued for. Expired,
// malformed, and badly signed tokens all fail.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid token payload")
	}

	return email, nil
}
