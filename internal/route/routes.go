package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/controller"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/data"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/handler"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

func HealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func AuthRoutes(r *gin.Engine, pg *data.Postgres) {
	auth := r.Group("/auth")

	auth.POST("/register", controller.Register(pg.DB))
	auth.POST("/login", controller.SignIn(pg.DB))
	auth.POST("/logout", controller.SignOut(pg.DB))
	auth.POST("/refresh", controller.RefreshToken(pg.DB))
}

func UserRoutes(r *gin.Engine, pg *data.Postgres, wallets *repo.WalletRepo) {
	user := r.Group("/user")

	user.GET("/profile", controller.AuthMe())
	user.GET("/login-activity", controller.GetLoginActivityHandler(pg.DB))
	user.GET("/wallets", controller.GetWalletsHandler(wallets))
}

func OfferRoutes(r *gin.Engine, h *handler.Handler) {
	offers := r.Group("/offers")

	offers.GET("", h.OfferHandler.Market)
	offers.GET("/mine", h.OfferHandler.MyAds)
	offers.POST("", h.OfferHandler.Create)
	offers.PUT("/:id", h.OfferHandler.Update)
	offers.PATCH("/:id/active", h.OfferHandler.Toggle)
	offers.DELETE("/:id", h.OfferHandler.Delete)
}

func TradeRoutes(r *gin.Engine, h *handler.Handler) {
	trades := r.Group("/trades")

	trades.POST("", h.TradeHandler.Create)
	trades.GET("/active", h.TradeHandler.ListActive)
	trades.GET("/history", h.TradeHandler.History)
	trades.GET("/:id", h.TradeHandler.Get)
	trades.POST("/:id/paid", h.TradeHandler.MarkPaid)
	trades.POST("/:id/release", h.TradeHandler.Release)
	trades.POST("/:id/dispute", h.TradeHandler.Dispute)
	trades.POST("/:id/cancel", h.TradeHandler.Cancel)
}

func ChatRoutes(r *gin.Engine, h *handler.Handler) {
	chat := r.Group("/trades/:id/chat")

	chat.GET("", h.ChatHandler.History)
	chat.POST("", h.ChatHandler.Send)
	chat.POST("/read", h.ChatHandler.MarkRead)
	chat.GET("/ws", h.ChatHandler.Join)
}

func AddressBookRoutes(r *gin.Engine, h *handler.Handler) {
	book := r.Group("/address-book")

	book.GET("", h.AddressBookHandler.List)
	book.POST("", h.AddressBookHandler.Create)
	book.PUT("/:id", h.AddressBookHandler.Update)
	book.DELETE("/:id", h.AddressBookHandler.Delete)
}

func PaymentMethodRoutes(r *gin.Engine, h *handler.Handler) {
	methods := r.Group("/payment-methods")

	methods.GET("", h.PaymentMethodHandler.List)
	methods.POST("", h.PaymentMethodHandler.Create)
	methods.DELETE("/:id", h.PaymentMethodHandler.Delete)
}
