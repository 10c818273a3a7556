package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ecapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/ec"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	storeapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/store"
)

const dateLayout = "2006-01-02"

// ===========================
// 店舖與配送方式
// ===========================

type ecSettingRequest struct {
	Enabled               bool   `json:"enabled"`
	FreeShippingThreshold *int64 `json:"free_shipping_threshold" binding:"omitempty,gte=0"`
	SameDayLimitHour      *int   `json:"same_day_limit_hour" binding:"omitempty,gte=0,lte=23"`
	ClosedWeekdays        []int  `json:"closed_weekdays" binding:"dive,gte=0,lte=6"`
	ShippingDays          int    `json:"shipping_days" binding:"gte=0,lte=30"`
}

func (r ecSettingRequest) toInput() storeapp.EcSettingInput {
	return storeapp.EcSettingInput{
		Enabled:               r.Enabled,
		FreeShippingThreshold: r.FreeShippingThreshold,
		SameDayLimitHour:      r.SameDayLimitHour,
		ClosedWeekdays:        r.ClosedWeekdays,
		ShippingDays:          r.ShippingDays,
	}
}

type createStoreRequest struct {
	Name                string           `json:"name" binding:"required"`
	PointConversionRate int              `json:"point_conversion_rate" binding:"gte=0"`
	EcSetting           ecSettingRequest `json:"ec_setting"`
}

type storeResponse struct {
	StoreID             string `json:"store_id"`
	Name                string `json:"name"`
	PointConversionRate int    `json:"point_conversion_rate"`
	EcEnabled           bool   `json:"ec_enabled"`
	ShippingDays        int    `json:"shipping_days"`
}

func toStoreResponse(r *storeapp.StoreResult) storeResponse {
	return storeResponse{
		StoreID:             r.StoreID,
		Name:                r.Name,
		PointConversionRate: r.PointConversionRate,
		EcEnabled:           r.EcEnabled,
		ShippingDays:        r.ShippingDays,
	}
}

// CreateStore POST /stores
func (h *Handler) CreateStore(c *gin.Context) {
	var req createStoreRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Stores.Create(c.Request.Context(), storeapp.CreateStoreCommand{
		Name:                req.Name,
		PointConversionRate: req.PointConversionRate,
		EcSetting:           req.EcSetting.toInput(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStoreResponse(result))
}

// UpdateEcSetting PUT /stores/:store_id/ec-setting
func (h *Handler) UpdateEcSetting(c *gin.Context) {
	var req ecSettingRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Stores.UpdateEcSetting(c.Request.Context(), storeapp.UpdateEcSettingCommand{
		StoreID:   c.Param("store_id"),
		EcSetting: req.toInput(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStoreResponse(result))
}

type regionFeeRequest struct {
	Region string `json:"region" binding:"required"`
	Fee    int64  `json:"fee" binding:"gte=0"`
}

type weightBandRequest struct {
	MaxWeight int                `json:"max_weight" binding:"gt=0"`
	Regions   []regionFeeRequest `json:"regions" binding:"required,min=1,dive"`
}

type methodRequest struct {
	DisplayName     string              `json:"display_name" binding:"required"`
	OrderNumber     int                 `json:"order_number" binding:"gte=0"`
	EnabledTracking bool                `json:"enabled_tracking"`
	Regions         []regionFeeRequest  `json:"regions" binding:"dive"`
	WeightBands     []weightBandRequest `json:"weight_bands" binding:"dive"`
}

func toRegionInputs(in []regionFeeRequest) []shippingapp.RegionFeeInput {
	out := make([]shippingapp.RegionFeeInput, len(in))
	for i, r := range in {
		out[i] = shippingapp.RegionFeeInput{Region: r.Region, Fee: r.Fee}
	}
	return out
}

func (r methodRequest) bandInputs() []shippingapp.WeightBandInput {
	bands := make([]shippingapp.WeightBandInput, len(r.WeightBands))
	for i, b := range r.WeightBands {
		bands[i] = shippingapp.WeightBandInput{MaxWeight: b.MaxWeight, Regions: toRegionInputs(b.Regions)}
	}
	return bands
}

// CreateShippingMethod POST /stores/:store_id/shipping-methods
func (h *Handler) CreateShippingMethod(c *gin.Context) {
	var req methodRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.ShippingMethods.Execute(c.Request.Context(), shippingapp.CreateMethodCommand{
		StoreID:         c.Param("store_id"),
		DisplayName:     req.DisplayName,
		OrderNumber:     req.OrderNumber,
		EnabledTracking: req.EnabledTracking,
		Regions:         toRegionInputs(req.Regions),
		WeightBands:     req.bandInputs(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"method_id": result.MethodID})
}

// UpdateShippingMethod PUT /stores/:store_id/shipping-methods/:method_id
func (h *Handler) UpdateShippingMethod(c *gin.Context) {
	var req methodRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.UpdateMethods.Execute(c.Request.Context(), shippingapp.UpdateMethodCommand{
		StoreID:         c.Param("store_id"),
		MethodID:        c.Param("method_id"),
		DisplayName:     req.DisplayName,
		OrderNumber:     req.OrderNumber,
		EnabledTracking: req.EnabledTracking,
		Regions:         toRegionInputs(req.Regions),
		WeightBands:     req.bandInputs(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"method_id": result.MethodID})
}

// DeleteShippingMethod DELETE /stores/:store_id/shipping-methods/:method_id
func (h *Handler) DeleteShippingMethod(c *gin.Context) {
	err := h.uc.DeleteMethods.Execute(c.Request.Context(), shippingapp.DeleteMethodCommand{
		StoreID:  c.Param("store_id"),
		MethodID: c.Param("method_id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// 運費候選
// ===========================

type candidatesRequest struct {
	Weight     int    `json:"weight" binding:"gte=0"`
	TotalPrice int64  `json:"total_price" binding:"gte=0"`
	Prefecture string `json:"prefecture" binding:"required"`
}

type candidateResponse struct {
	MethodID        string `json:"method_id"`
	DisplayName     string `json:"display_name"`
	OrderNumber     int    `json:"order_number"`
	Fee             int64  `json:"fee"`
	ShippingDays    int    `json:"shipping_days"`
	ShipDate        string `json:"ship_date"`
	EnabledTracking bool   `json:"enabled_tracking"`
}

type candidatesResponse struct {
	Prefecture string              `json:"prefecture"`
	Candidates []candidateResponse `json:"candidates"`
}

func toCandidatesResponse(r shippingapp.ShippingCandidatesResult) candidatesResponse {
	out := candidatesResponse{Prefecture: r.Prefecture, Candidates: make([]candidateResponse, len(r.Candidates))}
	for i, cand := range r.Candidates {
		out.Candidates[i] = candidateResponse{
			MethodID:        cand.MethodID,
			DisplayName:     cand.DisplayName,
			OrderNumber:     cand.OrderNumber,
			Fee:             cand.Fee,
			ShippingDays:    cand.ShippingDays,
			ShipDate:        cand.ShipDate.Format(dateLayout),
			EnabledTracking: cand.EnabledTracking,
		}
	}
	return out
}

// ShippingCandidates POST /stores/:store_id/shipping/candidates
func (h *Handler) ShippingCandidates(c *gin.Context) {
	var req candidatesRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.ShippingCandidates.Execute(c.Request.Context(), shippingapp.ShippingCandidatesQuery{
		StoreID:    c.Param("store_id"),
		Weight:     req.Weight,
		TotalPrice: req.TotalPrice,
		Prefecture: req.Prefecture,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCandidatesResponse(*result))
}

// ===========================
// 購物車
// ===========================

type cartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Weight    int    `json:"weight"`
}

type cartResponse struct {
	CartID     string             `json:"cart_id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Lines      []cartLineResponse `json:"lines"`
	Weight     int                `json:"weight"`
	Total      int64              `json:"total"`
}

func toCartResponse(r ecapp.CartResult) cartResponse {
	out := cartResponse{
		CartID:     r.CartID,
		CustomerID: r.CustomerID,
		Lines:      make([]cartLineResponse, len(r.Lines)),
		Weight:     r.Weight,
		Total:      r.Total,
	}
	for i, l := range r.Lines {
		out.Lines[i] = cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Weight:    l.Weight,
		}
	}
	return out
}

type createCartRequest struct {
	CustomerID string `json:"customer_id"`
}

// CreateCart POST /stores/:store_id/carts
func (h *Handler) CreateCart(c *gin.Context) {
	var req createCartRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Carts.Create(c.Request.Context(), ecapp.CreateCartCommand{
		StoreID:    c.Param("store_id"),
		CustomerID: req.CustomerID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(*result))
}

// GetCart GET /stores/:store_id/carts/:cart_id
func (h *Handler) GetCart(c *gin.Context) {
	result, err := h.uc.Carts.Get(c.Request.Context(), c.Param("store_id"), c.Param("cart_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*result))
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddCartItem POST /stores/:store_id/carts/:cart_id/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Carts.AddItem(c.Request.Context(), ecapp.CartItemCommand{
		StoreID:   c.Param("store_id"),
		CartID:    c.Param("cart_id"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*result))
}

// RemoveCartItem DELETE /stores/:store_id/carts/:cart_id/items/:product_id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	result, err := h.uc.Carts.RemoveItem(c.Request.Context(), ecapp.CartItemCommand{
		StoreID:   c.Param("store_id"),
		CartID:    c.Param("cart_id"),
		ProductID: c.Param("product_id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*result))
}

type cartCandidatesRequest struct {
	Prefecture string `json:"prefecture" binding:"required"`
}

// CartShippingCandidates POST /stores/:store_id/carts/:cart_id/shipping-candidates
func (h *Handler) CartShippingCandidates(c *gin.Context) {
	var req cartCandidatesRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Carts.ShippingCandidates(c.Request.Context(), ecapp.CartCandidatesQuery{
		StoreID:    c.Param("store_id"),
		CartID:     c.Param("cart_id"),
		Prefecture: req.Prefecture,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart":       toCartResponse(result.Cart),
		"prefecture": result.Prefecture,
		"candidates": toCandidatesResponse(result.ShippingCandidatesResult).Candidates,
	})
}

// ===========================
// 結帳
// ===========================

type addressRequest struct {
	Name       string `json:"name" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Prefecture string `json:"prefecture" binding:"required"`
	City       string `json:"city" binding:"required"`
	Line       string `json:"line" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

type checkoutRequest struct {
	MethodID string         `json:"method_id" binding:"required"`
	Address  addressRequest `json:"address"`
}

type orderLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	OrderID      string              `json:"order_id"`
	Status       string              `json:"status"`
	Lines        []orderLineResponse `json:"lines"`
	ShippingName string              `json:"shipping_name"`
	Subtotal     int64               `json:"subtotal"`
	ShippingFee  int64               `json:"shipping_fee"`
	Total        int64               `json:"total"`
	ShipDate     string              `json:"ship_date"`
	PointsEarned int                 `json:"points_earned"`
}

// Checkout POST /stores/:store_id/carts/:cart_id/checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.Checkout.Execute(c.Request.Context(), ecapp.CheckoutCommand{
		StoreID:  c.Param("store_id"),
		CartID:   c.Param("cart_id"),
		MethodID: req.MethodID,
		Address: ecapp.AddressInput{
			Name:       req.Address.Name,
			PostalCode: req.Address.PostalCode,
			Prefecture: req.Address.Prefecture,
			City:       req.Address.City,
			Line:       req.Address.Line,
			Phone:      req.Address.Phone,
		},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := orderResponse{
		OrderID:      result.OrderID,
		Status:       result.Status,
		Lines:        make([]orderLineResponse, len(result.Lines)),
		ShippingName: result.ShippingName,
		Subtotal:     result.Subtotal,
		ShippingFee:  result.ShippingFee,
		Total:        result.Total,
		ShipDate:     result.ShipDate.Format(dateLayout),
		PointsEarned: result.PointsEarned,
	}
	for i, l := range result.Lines {
		resp.Lines[i] = orderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	c.JSON(http.StatusCreated, resp)
}
