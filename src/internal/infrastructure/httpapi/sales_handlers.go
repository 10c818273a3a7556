package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	registerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/register"
	transactionapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/transaction"
)

// ===========================
// 交易
// ===========================

type lineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
	Quantity  int    `json:"quantity" binding:"gt=0"`
	Discount  int64  `json:"discount" binding:"gte=0"`
}

type saveDraftRequest struct {
	TransactionID string        `json:"transaction_id"`
	Kind          string        `json:"kind" binding:"required,oneof=sell buy"`
	RegisterID    string        `json:"register_id"`
	CustomerID    string        `json:"customer_id"`
	Lines         []lineRequest `json:"lines" binding:"dive"`
	Discount      int64         `json:"discount" binding:"gte=0"`
	PointsUsed    int           `json:"points_used" binding:"gte=0"`
}

type draftResponse struct {
	TransactionID string `json:"transaction_id"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	Subtotal      int64  `json:"subtotal"`
	Total         int64  `json:"total"`
	LineCount     int    `json:"line_count"`
}

func toDraftResponse(r *transactionapp.DraftResult) draftResponse {
	return draftResponse{
		TransactionID: r.TransactionID,
		Kind:          r.Kind,
		Status:        r.Status,
		Subtotal:      r.Subtotal,
		Total:         r.Total,
		LineCount:     r.LineCount,
	}
}

// SaveDraft PUT /stores/:store_id/transactions/draft
func (h *Handler) SaveDraft(c *gin.Context) {
	var req saveDraftRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	lines := make([]transactionapp.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = transactionapp.LineInput{
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Discount:  l.Discount,
		}
	}
	result, err := h.uc.SaveDraft.Execute(c.Request.Context(), transactionapp.SaveDraftCommand{
		StoreID:       c.Param("store_id"),
		TransactionID: req.TransactionID,
		Kind:          req.Kind,
		RegisterID:    req.RegisterID,
		CustomerID:    req.CustomerID,
		Lines:         lines,
		Discount:      req.Discount,
		PointsUsed:    req.PointsUsed,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(result))
}

type finalizeRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card other"`
	Received      int64  `json:"received" binding:"gte=0"`
}

type finalizeResponse struct {
	TransactionID   string `json:"transaction_id"`
	Kind            string `json:"kind"`
	Total           int64  `json:"total"`
	Received        int64  `json:"received"`
	Change          int64  `json:"change"`
	WholesaleCost   int64  `json:"wholesale_cost"`
	PointsUsed      int    `json:"points_used"`
	PointsEarned    int    `json:"points_earned"`
	PointsAvailable *int   `json:"points_available,omitempty"`
	CashBalance     *int64 `json:"cash_balance,omitempty"`
	ConsignedSales  int    `json:"consigned_sales"`
}

// FinalizeTransaction POST /stores/:store_id/transactions/:transaction_id/finalize
func (h *Handler) FinalizeTransaction(c *gin.Context) {
	var req finalizeRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Finalize.Execute(c.Request.Context(), transactionapp.FinalizeCommand{
		StoreID:       c.Param("store_id"),
		TransactionID: c.Param("transaction_id"),
		PaymentMethod: req.PaymentMethod,
		Received:      req.Received,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finalizeResponse{
		TransactionID:   result.TransactionID,
		Kind:            result.Kind,
		Total:           result.Total,
		Received:        result.Received,
		Change:          result.Change,
		WholesaleCost:   result.WholesaleCost,
		PointsUsed:      result.PointsUsed,
		PointsEarned:    result.PointsEarned,
		PointsAvailable: result.PointsAvailable,
		CashBalance:     result.CashBalance,
		ConsignedSales:  result.ConsignedSales,
	})
}

// CancelTransaction POST /stores/:store_id/transactions/:transaction_id/cancel
func (h *Handler) CancelTransaction(c *gin.Context) {
	result, err := h.uc.CancelDraft.Execute(c.Request.Context(), transactionapp.CancelCommand{
		StoreID:       c.Param("store_id"),
		TransactionID: c.Param("transaction_id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(result))
}

// ===========================
// 收銀機
// ===========================

type registerResponse struct {
	RegisterID  string `json:"register_id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CashBalance int64  `json:"cash_balance"`
}

func toRegisterResponse(r registerapp.RegisterResult) registerResponse {
	return registerResponse{
		RegisterID:  r.RegisterID,
		Name:        r.Name,
		Status:      r.Status,
		CashBalance: r.CashBalance,
	}
}

type createRegisterRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRegister POST /stores/:store_id/registers
func (h *Handler) CreateRegister(c *gin.Context) {
	var req createRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.CreateRegister.Execute(c.Request.Context(), registerapp.CreateRegisterCommand{
		StoreID: c.Param("store_id"),
		Name:    req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRegisterResponse(*result))
}

// denominations 的 key 為面額（JSON 物件鍵，例如 {"1000": 3}）
type settleRequest struct {
	Kind          string        `json:"kind" binding:"required,oneof=opening middle closing"`
	Denominations map[int64]int `json:"denominations" binding:"dive,gte=0"`
}

type settleResponse struct {
	SettlementID string           `json:"settlement_id"`
	Register     registerResponse `json:"register"`
	Counted      int64            `json:"counted"`
	Expected     int64            `json:"expected"`
	Difference   int64            `json:"difference"`
	Adjusted     bool             `json:"adjusted"`
}

// Settle POST /stores/:store_id/registers/:register_id/settlements
func (h *Handler) Settle(c *gin.Context) {
	var req settleRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Settle.Execute(c.Request.Context(), registerapp.SettleCommand{
		StoreID:       c.Param("store_id"),
		RegisterID:    c.Param("register_id"),
		Kind:          req.Kind,
		Denominations: req.Denominations,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settleResponse{
		SettlementID: result.SettlementID,
		Register:     toRegisterResponse(result.Register),
		Counted:      result.Counted,
		Expected:     result.Expected,
		Difference:   result.Difference,
		Adjusted:     result.Adjusted,
	})
}

type cashRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

type cashOp func(ctx context.Context, cmd registerapp.CashCommand) (*registerapp.CashResult, error)

// Deposit POST /stores/:store_id/registers/:register_id/deposits
func (h *Handler) Deposit(c *gin.Context) {
	h.runCash(c, h.uc.Cash.Deposit)
}

// Withdraw POST /stores/:store_id/registers/:register_id/withdrawals
func (h *Handler) Withdraw(c *gin.Context) {
	h.runCash(c, h.uc.Cash.Withdraw)
}

func (h *Handler) runCash(c *gin.Context, op cashOp) {
	var req cashRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := op(c.Request.Context(), registerapp.CashCommand{
		StoreID:    c.Param("store_id"),
		RegisterID: c.Param("register_id"),
		Amount:     req.Amount,
		Reason:     req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"movement_id": result.MovementID,
		"amount":      result.Amount,
		"register":    toRegisterResponse(result.Register),
	})
}

type movementResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	SourceID     string    `json:"source_id,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListMovements GET /stores/:store_id/registers/:register_id/movements?from=&to=
func (h *Handler) ListMovements(c *gin.Context) {
	var q timeRangeQuery
	if err := bindQuery(c, &q); err != nil {
		h.respondError(c, err)
		return
	}
	movements, err := h.uc.Movements.Execute(c.Request.Context(), registerapp.MovementsQuery{
		StoreID:    c.Param("store_id"),
		RegisterID: c.Param("register_id"),
		From:       q.From,
		To:         q.To,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]movementResponse, len(movements))
	for i, m := range movements {
		out[i] = movementResponse{
			ID:           m.ID,
			Kind:         m.Kind,
			Amount:       m.Amount,
			SourceID:     m.SourceID,
			Reason:       m.Reason,
			BalanceAfter: m.BalanceAfter,
			CreatedAt:    m.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"movements": out})
}
