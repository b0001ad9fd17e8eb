package controller

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required"`
}

type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type jwtClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

var accessTTL = 15 * time.Minute
var refreshTTL = 7 * 24 * time.Hour

func Register(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var exists bool
		err := db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM users
				WHERE username = $1 OR email = $2 OR phone_number = $3
			)
		`, req.Username, req.Email, req.Phone).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (db check)"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"message": "username, phone or email already exists"})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error encode password"})
			return
		}

		tx, err := db.BeginTx(ctx, &sql.TxOptions{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (tx)"})
			return
		}
		defer tx.Rollback()

		var userID uuid.UUID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (
				username,
				email,
				phone_number,
				country_code,
				kyc_status,
				status
			) VALUES ($1, $2, $3, $4, 'none', 'active')
			RETURNING id
		`,
			req.Username,
			req.Email,
			req.Phone,
			req.CountryCode,
		).Scan(&userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (insert user)"})
			return
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_auth (
				user_id,
				password_hash,
				last_password_change
			) VALUES ($1, $2, $3)
		`,
			userID,
			string(hashedPassword),
			now,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (insert auth)"})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (commit)"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func LogLoginActivity(db *sql.DB, userID uuid.UUID, ip, userAgent string, success bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO login_activities (user_id, ip_address, user_agent, location, successful)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, ip, userAgent, nil, success)
	if err != nil {
		log.Println("LogLoginActivity error:", err)
	}
}

func SignIn(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")

		var req SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var (
			userID       uuid.UUID
			username     string
			passwordHash string
		)

		err := db.QueryRowContext(ctx, `
			SELECT u.id, u.username, ua.password_hash
			FROM users u
			JOIN user_auth ua ON ua.user_id = u.id
			WHERE u.username = $1
		`, req.Username).Scan(&userID, &username, &passwordHash)

		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect username or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (db)"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			LogLoginActivity(db, userID, c.ClientIP(), c.Request.UserAgent(), false)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect username or password"})
			return
		}

		claims := jwtClaims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		accessToken, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (jwt)"})
			return
		}

		buf := make([]byte, 64)
		if _, err := rand.Read(buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (gen refresh token)"})
			return
		}
		refreshToken := hex.EncodeToString(buf)

		// Only the sha256 hash of the refresh token is stored.
		hashBytes := sha256.Sum256([]byte(refreshToken))
		tokenHash := hex.EncodeToString(hashBytes[:])

		expiresAt := time.Now().Add(refreshTTL)
		ipAddr := c.ClientIP()

		_, err = db.ExecContext(ctx, `
			INSERT INTO refresh_tokens (
				user_id,
				token_hash,
				ip_address,
				expires_at
			) VALUES ($1, $2, $3::inet, $4)
		`,
			userID,
			tokenHash,
			ipAddr,
			expiresAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (create refresh token)"})
			return
		}

		secure := false // set true behind HTTPS

		c.SetCookie(
			"refreshToken",
			refreshToken,
			int(refreshTTL.Seconds()),
			"/",
			"",
			secure,
			true,
		)

		LogLoginActivity(db, userID, ipAddr, c.Request.UserAgent(), true)

		c.JSON(http.StatusOK, gin.H{
			"message":     "User " + username + " logged in",
			"accessToken": accessToken,
			"expiresIn":   int(accessTTL.Seconds()),
		})
	}
}

func SignOut(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refreshToken")
		if err == nil && refreshToken != "" {
			hashBytes := sha256.Sum256([]byte(refreshToken))
			tokenHash := hex.EncodeToString(hashBytes[:])

			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			_, err := db.ExecContext(ctx, `
				UPDATE refresh_tokens
				SET revoked_at = NOW()
				WHERE token_hash = $1
				  AND revoked_at IS NULL
			`, tokenHash)

			// logout proceeds regardless
			_ = err

			secure := false

			c.SetCookie(
				"refreshToken",
				"",
				-1,
				"/",
				"",
				secure,
				true,
			)
		}

		c.Status(http.StatusNoContent)
	}
}

func RefreshToken(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")

		refreshToken, err := c.Cookie("refreshToken")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Refresh token missing"})
			return
		}

		hashBytes := sha256.Sum256([]byte(refreshToken))
		tokenHash := hex.EncodeToString(hashBytes[:])

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var (
			userID    uuid.UUID
			expiresAt time.Time
			revokedAt *time.Time
		)

		err = db.QueryRowContext(ctx, `
			SELECT user_id, expires_at, revoked_at
			FROM refresh_tokens
			WHERE token_hash = $1
		`, tokenHash).Scan(&userID, &expiresAt, &revokedAt)

		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (db)"})
			return
		}

		if revokedAt != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token was revoked"})
			return
		}

		if time.Now().After(expiresAt) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token expired"})
			return
		}

		claims := jwtClaims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}

		newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		accessToken, err := newToken.SignedString([]byte(jwtSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "System error (jwt)"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken": accessToken,
			"expiresIn":   int(accessTTL.Seconds()),
		})
	}
}
