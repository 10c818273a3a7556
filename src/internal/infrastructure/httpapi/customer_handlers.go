package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	consignmentapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/consignment"
	customerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/customer"
	pointsapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/points"
	reservationapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/reservation"
)

// ===========================
// 顧客與點數
// ===========================

type registerCustomerRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

// RegisterCustomer POST /stores/:store_id/customers
func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req registerCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Customers.Execute(c.Request.Context(), customerapp.RegisterCustomerCommand{
		StoreID:     c.Param("store_id"),
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"customer_id":  result.CustomerID,
		"account_id":   result.AccountID,
		"display_name": result.DisplayName,
		"phone_number": result.PhoneNumber,
		"created_at":   result.CreatedAt,
	})
}

// CreatePointsAccount POST /stores/:store_id/customers/:customer_id/points-account
func (h *Handler) CreatePointsAccount(c *gin.Context) {
	result, err := h.uc.PointsAccount.Execute(c.Request.Context(), pointsapp.CreatePointsAccountCommand{
		StoreID:    c.Param("store_id"),
		CustomerID: c.Param("customer_id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"account_id":      result.AccountID,
		"customer_id":     result.CustomerID,
		"initial_balance": result.InitialBalance,
		"created_at":      result.CreatedAt,
	})
}

type pointsBalanceResponse struct {
	AccountID       string `json:"account_id"`
	CustomerID      string `json:"customer_id"`
	EarnedPoints    int    `json:"earned_points"`
	UsedPoints      int    `json:"used_points"`
	AvailablePoints int    `json:"available_points"`
}

func toPointsBalanceResponse(r *pointsapp.GetPointsBalanceResult) pointsBalanceResponse {
	return pointsBalanceResponse{
		AccountID:       r.AccountID,
		CustomerID:      r.CustomerID,
		EarnedPoints:    r.EarnedPoints,
		UsedPoints:      r.UsedPoints,
		AvailablePoints: r.AvailablePoints,
	}
}

// GetPointsBalance GET /stores/:store_id/customers/:customer_id/points
func (h *Handler) GetPointsBalance(c *gin.Context) {
	result, err := h.uc.PointsBalance.Execute(c.Request.Context(), pointsapp.GetPointsBalanceQuery{
		StoreID:    c.Param("store_id"),
		CustomerID: c.Param("customer_id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPointsBalanceResponse(result))
}

type adjustPointsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustPoints POST /stores/:store_id/customers/:customer_id/points/adjustments
func (h *Handler) AdjustPoints(c *gin.Context) {
	var req adjustPointsRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.PointsAdjust.Execute(c.Request.Context(), pointsapp.AdjustPointsCommand{
		StoreID:    c.Param("store_id"),
		CustomerID: c.Param("customer_id"),
		Delta:      req.Delta,
		Reason:     req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPointsBalanceResponse(result))
}

// ===========================
// 予約
// ===========================

type createReservationRequest struct {
	ProductID        string `json:"product_id" binding:"required"`
	LimitCount       int    `json:"limit_count" binding:"gte=0"`
	LimitPerCustomer int    `json:"limit_per_customer" binding:"gte=0"`
	Deposit          int64  `json:"deposit" binding:"gte=0"`
	RemainingPrice   int64  `json:"remaining_price" binding:"gte=0"`
}

type reservationResponse struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	Status        string `json:"status"`
	ReservedCount int    `json:"reserved_count"`
	LimitCount    int    `json:"limit_count"`
}

func toReservationResponse(r *reservationapp.ReservationResult) reservationResponse {
	return reservationResponse{
		ReservationID: r.ReservationID,
		ProductID:     r.ProductID,
		Status:        r.Status,
		ReservedCount: r.ReservedCount,
		LimitCount:    r.LimitCount,
	}
}

type receptionResponse struct {
	ReservationID string     `json:"reservation_id"`
	ReceptionID   string     `json:"reception_id"`
	CustomerID    string     `json:"customer_id"`
	Count         int        `json:"count"`
	Status        string     `json:"status"`
	DepositTotal  int64      `json:"deposit_total"`
	RemainingDue  int64      `json:"remaining_due"`
	ProductStock  *int       `json:"product_stock,omitempty"`
	ReceivedAt    *time.Time `json:"received_at,omitempty"`
}

func toReceptionResponse(r *reservationapp.ReceptionResult) receptionResponse {
	return receptionResponse{
		ReservationID: r.ReservationID,
		ReceptionID:   r.ReceptionID,
		CustomerID:    r.CustomerID,
		Count:         r.Count,
		Status:        r.Status,
		DepositTotal:  r.DepositTotal,
		RemainingDue:  r.RemainingDue,
		ProductStock:  r.ProductStock,
		ReceivedAt:    r.ReceivedAt,
	}
}

// CreateReservation POST /stores/:store_id/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Reservations.Create(c.Request.Context(), reservationapp.CreateReservationCommand{
		StoreID:          c.Param("store_id"),
		ProductID:        req.ProductID,
		LimitCount:       req.LimitCount,
		LimitPerCustomer: req.LimitPerCustomer,
		Deposit:          req.Deposit,
		RemainingPrice:   req.RemainingPrice,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(result))
}

type reserveRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Count      int    `json:"count" binding:"required,gt=0"`
}

// Reserve POST /stores/:store_id/reservations/:reservation_id/receptions
func (h *Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Reservations.Reserve(c.Request.Context(), reservationapp.ReserveCommand{
		StoreID:       c.Param("store_id"),
		ReservationID: c.Param("reservation_id"),
		CustomerID:    req.CustomerID,
		Count:         req.Count,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReceptionResponse(result))
}

func receptionCommand(c *gin.Context) reservationapp.ReceptionCommand {
	return reservationapp.ReceptionCommand{
		StoreID:       c.Param("store_id"),
		ReservationID: c.Param("reservation_id"),
		ReceptionID:   c.Param("reception_id"),
	}
}

// ReceiveReception POST /stores/:store_id/reservations/:reservation_id/receptions/:reception_id/receive
func (h *Handler) ReceiveReception(c *gin.Context) {
	result, err := h.uc.Reservations.Receive(c.Request.Context(), receptionCommand(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceptionResponse(result))
}

// CancelReception POST /stores/:store_id/reservations/:reservation_id/receptions/:reception_id/cancel
func (h *Handler) CancelReception(c *gin.Context) {
	result, err := h.uc.Reservations.CancelReception(c.Request.Context(), receptionCommand(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceptionResponse(result))
}

// CloseReservation POST /stores/:store_id/reservations/:reservation_id/close
func (h *Handler) CloseReservation(c *gin.Context) {
	result, err := h.uc.Reservations.Close(c.Request.Context(), c.Param("store_id"), c.Param("reservation_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(result))
}

// ===========================
// 委託
// ===========================

type createClientRequest struct {
	Name           string `json:"name" binding:"required"`
	CommissionRate int    `json:"commission_rate" binding:"gte=0,lte=100"`
}

// CreateConsignmentClient POST /stores/:store_id/consignment-clients
func (h *Handler) CreateConsignmentClient(c *gin.Context) {
	var req createClientRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Clients.Execute(c.Request.Context(), consignmentapp.CreateClientCommand{
		StoreID:        c.Param("store_id"),
		Name:           req.Name,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"client_id":       result.ClientID,
		"name":            result.Name,
		"commission_rate": result.CommissionRate,
	})
}

type payoutResponse struct {
	ClientID        string    `json:"client_id"`
	ClientName      string    `json:"client_name"`
	CommissionRate  int       `json:"commission_rate"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	SaleCount       int       `json:"sale_count"`
	Quantity        int       `json:"quantity"`
	SalesTotal      int64     `json:"sales_total"`
	CommissionTotal int64     `json:"commission_total"`
	PayoutTotal     int64     `json:"payout_total"`
}

// ConsignmentPayout GET /stores/:store_id/consignment-clients/:client_id/payout?from=&to=
func (h *Handler) ConsignmentPayout(c *gin.Context) {
	var q timeRangeQuery
	if err := bindQuery(c, &q); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Payouts.Execute(c.Request.Context(), consignmentapp.PayoutQuery{
		StoreID:  c.Param("store_id"),
		ClientID: c.Param("client_id"),
		From:     q.From,
		To:       q.To,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payoutResponse{
		ClientID:        result.ClientID,
		ClientName:      result.ClientName,
		CommissionRate:  result.CommissionRate,
		From:            result.From,
		To:              result.To,
		SaleCount:       result.SaleCount,
		Quantity:        result.Quantity,
		SalesTotal:      result.SalesTotal,
		CommissionTotal: result.CommissionTotal,
		PayoutTotal:     result.PayoutTotal,
	})
}
