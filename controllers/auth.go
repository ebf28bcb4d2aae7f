package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"agentline/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthController authenticates the human operator of the admin API.
type AuthController struct {
	Cfg config.Configuration
}

// POST /api/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email and password are required", http.StatusBadRequest)
		return
	}

	sec := a.Cfg.Security
	if sec.OperatorEmail == "" || sec.OperatorPassword == "" {
		RespondError(c, "operator credentials not configured", http.StatusInternalServerError)
		return
	}
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(sec.OperatorEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(sec.OperatorPassword)) == 1
	if !emailOK || !passOK {
		RespondError(c, "invalid email or password", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": req.Email,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(sec.TokenTTLHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sec.JwtSecret))
	if err != nil {
		RespondError(c, "failed to sign token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"token": signed})
}

// AuthRequired validates the Bearer token on operator routes.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "missing bearer token", http.StatusUnauthorized)
			c.Abort()
			return
		}
		raw := strings.TrimSpace(h[len("Bearer "):])

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			RespondError(c, "invalid token", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
