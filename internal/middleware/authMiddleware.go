package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type UserContext struct {
	ID                 uuid.UUID        `json:"id"`
	Username           string           `json:"username"`
	Email              string           `json:"email"`
	Phone              *string          `json:"phone_number"`
	CountryCode        string           `json:"country_code"`
	KYCStatus          models.KYCStatus `json:"kyc_status"`
	TradesCount        int              `json:"trades_count"`
	CompletionRate     float64          `json:"completion_rate"`
	IsVerifiedMerchant bool             `json:"is_verified_merchant"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func RequireAuth(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token not found"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusForbidden, gin.H{"message": "Access token expired or incorrect"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		userIDStr, ok := claims["userId"].(string)
		if !ok || userIDStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "userId not found in token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var u UserContext
		err = db.QueryRowContext(ctx, `
			SELECT id, username, email, phone_number, country_code, kyc_status,
			       trades_count, completion_rate, is_verified_merchant, status,
			       created_at, updated_at
			FROM users
			WHERE id = $1
			  AND status = 'active'
		`, userID).Scan(
			&u.ID, &u.Username, &u.Email, &u.Phone, &u.CountryCode, &u.KYCStatus,
			&u.TradesCount, &u.CompletionRate, &u.IsVerifiedMerchant, &u.Status,
			&u.CreatedAt, &u.UpdatedAt,
		)

		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (db)"})
			}
			c.Abort()
			return
		}

		c.Set("user", u)
		c.Next()
	}
}
