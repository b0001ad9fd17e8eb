package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/middleware"
)

func GetCurrentUser(c *gin.Context) (*middleware.UserContext, error) {
	v, ok := c.Get("user")
	if !ok || v == nil {
		return nil, errors.New("user not found in context")
	}

	if uc, ok := v.(middleware.UserContext); ok {
		return &uc, nil
	}

	return nil, errors.New("invalid user type in context")
}
