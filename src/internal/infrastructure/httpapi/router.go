package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsProvider HTTP 指標與 /metrics 端點
type MetricsProvider interface {
	HTTPRecorder
	Handler() http.Handler
}

// Handler HTTP 處理器
type Handler struct {
	uc     UseCases
	logger *zap.Logger
}

// NewHandler 建立處理器
func NewHandler(uc UseCases, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{uc: uc, logger: logger}
}

// NewRouter 建立 gin 路由；metrics 可為 nil
func NewRouter(h *Handler, metrics MetricsProvider) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(h.logger))
	router.Use(LoggingMiddleware(h.logger))
	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health)
	v1.POST("/stores", h.CreateStore)

	s := v1.Group("/stores/:store_id")
	{
		s.PUT("/ec-setting", h.UpdateEcSetting)
		s.POST("/shipping-methods", h.CreateShippingMethod)
		s.PUT("/shipping-methods/:method_id", h.UpdateShippingMethod)
		s.DELETE("/shipping-methods/:method_id", h.DeleteShippingMethod)
		s.POST("/shipping/candidates", h.ShippingCandidates)

		s.POST("/products", h.CreateProduct)
		s.POST("/products/:product_id/release-original-pack", h.ReleaseOriginalPack)
		s.POST("/products/:product_id/bundle", h.AssembleBundle)
		s.POST("/products/:product_id/unbundle", h.DisassembleBundle)
		s.POST("/products/:product_id/adjust", h.AdjustStock)

		s.PUT("/transactions/draft", h.SaveDraft)
		s.POST("/transactions/:transaction_id/finalize", h.FinalizeTransaction)
		s.POST("/transactions/:transaction_id/cancel", h.CancelTransaction)

		s.POST("/registers", h.CreateRegister)
		s.POST("/registers/:register_id/settlements", h.Settle)
		s.POST("/registers/:register_id/deposits", h.Deposit)
		s.POST("/registers/:register_id/withdrawals", h.Withdraw)
		s.GET("/registers/:register_id/movements", h.ListMovements)

		s.POST("/customers", h.RegisterCustomer)
		s.POST("/customers/:customer_id/points-account", h.CreatePointsAccount)
		s.GET("/customers/:customer_id/points", h.GetPointsBalance)
		s.POST("/customers/:customer_id/points/adjustments", h.AdjustPoints)

		s.POST("/reservations", h.CreateReservation)
		s.POST("/reservations/:reservation_id/receptions", h.Reserve)
		s.POST("/reservations/:reservation_id/receptions/:reception_id/receive", h.ReceiveReception)
		s.POST("/reservations/:reservation_id/receptions/:reception_id/cancel", h.CancelReception)
		s.POST("/reservations/:reservation_id/close", h.CloseReservation)

		s.POST("/consignment-clients", h.CreateConsignmentClient)
		s.GET("/consignment-clients/:client_id/payout", h.ConsignmentPayout)

		s.POST("/carts", h.CreateCart)
		s.GET("/carts/:cart_id", h.GetCart)
		s.POST("/carts/:cart_id/items", h.AddCartItem)
		s.DELETE("/carts/:cart_id/items/:product_id", h.RemoveCartItem)
		s.POST("/carts/:cart_id/shipping-candidates", h.CartShippingCandidates)
		s.POST("/carts/:cart_id/checkout", h.Checkout)
	}
	return router
}

// Health 健康檢查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
