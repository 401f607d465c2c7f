// visitor.go gives every browser a stable anonymous identity.
//
// The identity is a uuid carried as the subject of an HS256 JWT in a cookie.
// Nothing is looked up server-side: a valid signature is the whole check.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// VisitorCookie is the name of the identity cookie.
const VisitorCookie = "tv_visitor"

// DefaultVisitorTTL is how long an identity cookie lives without a visit.
const DefaultVisitorTTL = 180 * 24 * time.Hour

const visitorContextKey = "visitor_id"

const visitorIssuer = "transcript-viewer"

// VisitorClaims is the payload of a visitor token.
type VisitorClaims struct {
	jwt.RegisteredClaims
}

// IssueVisitorToken signs a token for visitorID that expires after ttl.
func IssueVisitorToken(visitorID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := VisitorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   visitorID,
			Issuer:    visitorIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseVisitorToken validates a token and returns the visitor id it carries.
func ParseVisitorToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(visitorIssuer))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("visitor token subject is not a uuid")
	}
	return claims.Subject, nil
}

// Visitor returns middleware that reads the visitor cookie, or issues a new
// identity when it is missing, expired, or forged. The cookie is refreshed
// on every request so active visitors keep their identity.
func Visitor(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var visitorID string
		if raw, err := c.Cookie(VisitorCookie); err == nil && raw != "" {
			if id, err := ParseVisitorToken(raw, secret); err == nil {
				visitorID = id
			}
		}
		if visitorID == "" {
			visitorID = uuid.NewString()
		}

		token, err := IssueVisitorToken(visitorID, secret, ttl)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to issue visitor identity",
				Code:    http.StatusInternalServerError,
			})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookie, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
		c.Set(visitorContextKey, visitorID)
		c.Next()
	}
}

// GetVisitorID returns the visitor id set by Visitor, or "" outside it.
func GetVisitorID(c *gin.Context) string {
	return c.GetString(visitorContextKey)
}
