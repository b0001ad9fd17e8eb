package controller

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/middleware"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

type LoginActivity struct {
	ID        string    `json:"id"        db:"id"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	IP        string    `json:"ip"        db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Location  *string   `json:"location,omitempty" db:"location"`
	Success   bool      `json:"success"   db:"successful"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func AuthMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		userInfo, ok := user.(middleware.UserContext)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Invalid user data"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": userInfo,
		})
	}
}

func GetLoginActivityHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, ok := c.Get("user")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var userID uuid.UUID
		if u, ok := userVal.(middleware.UserContext); ok {
			userID = u.ID
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user data in context"})
			return
		}

		if userID == uuid.Nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Empty user id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		rows, err := db.QueryContext(ctx, `
			SELECT id, user_id, ip_address, user_agent, location, successful, created_at
			FROM login_activities
			WHERE user_id = $1::uuid
			ORDER BY created_at DESC
			LIMIT 50
		`, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "System error (db)"})
			return
		}
		defer rows.Close()

		activities := make([]LoginActivity, 0)
		for rows.Next() {
			var a LoginActivity
			if err := rows.Scan(&a.ID, &a.UserID, &a.IP, &a.UserAgent, &a.Location, &a.Success, &a.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "System error (scan)"})
				return
			}
			activities = append(activities, a)
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "System error (rows)"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"activities": activities})
	}
}

func GetWalletsHandler(wallets *repo.WalletRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, ok := c.Get("user")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		u, ok := userVal.(middleware.UserContext)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user data in context"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, err := wallets.ListByUser(ctx, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "System error (db)"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"wallets": list})
	}
}
