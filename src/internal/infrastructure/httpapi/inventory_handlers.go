package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/inventory"
)

// ===========================
// 商品
// ===========================

type componentRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gt=0"`
}

type createProductRequest struct {
	Name                string             `json:"name" binding:"required"`
	SellPrice           int64              `json:"sell_price" binding:"gte=0"`
	BuyPrice            int64              `json:"buy_price" binding:"gte=0"`
	Weight              int                `json:"weight" binding:"gte=0"`
	Kind                string             `json:"kind" binding:"required,oneof=normal original_pack bundle"`
	EcEnabled           bool               `json:"ec_enabled"`
	ConsignmentClientID string             `json:"consignment_client_id"`
	Components          []componentRequest `json:"components" binding:"dive"`
	InitialStock        int                `json:"initial_stock" binding:"gte=0"`
	InitialUnitCost     int64              `json:"initial_unit_cost" binding:"gte=0"`
}

// CreateProduct POST /stores/:store_id/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	components := make([]inventoryapp.ComponentInput, len(req.Components))
	for i, comp := range req.Components {
		components[i] = inventoryapp.ComponentInput{ProductID: comp.ProductID, Quantity: comp.Quantity}
	}
	result, err := h.uc.Products.Execute(c.Request.Context(), inventoryapp.CreateProductCommand{
		StoreID:             c.Param("store_id"),
		Name:                req.Name,
		SellPrice:           req.SellPrice,
		BuyPrice:            req.BuyPrice,
		Weight:              req.Weight,
		Kind:                req.Kind,
		EcEnabled:           req.EcEnabled,
		ConsignmentClientID: req.ConsignmentClientID,
		Components:          components,
		InitialStock:        req.InitialStock,
		InitialUnitCost:     req.InitialUnitCost,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"product_id":   result.ProductID,
		"stock_number": result.StockNumber,
	})
}

// ===========================
// 開封原封包裝
// ===========================

type packContentRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Count     int    `json:"count" binding:"gt=0"`
}

type releasePackRequest struct {
	PackCount int                  `json:"pack_count" binding:"required,gt=0"`
	Contents  []packContentRequest `json:"contents" binding:"required,min=1,dive"`
}

type releasedContentResponse struct {
	ProductID     string `json:"product_id"`
	Count         int    `json:"count"`
	AllocatedCost int64  `json:"allocated_cost"`
	StockNumber   int    `json:"stock_number"`
}

type releasePackResponse struct {
	OpeningID      string                    `json:"opening_id"`
	PackProductID  string                    `json:"pack_product_id"`
	PackStock      int                       `json:"pack_stock"`
	TotalCost      int64                     `json:"total_cost"`
	Contents       []releasedContentResponse `json:"contents"`
	HistoryEntries int                       `json:"history_entries"`
}

// ReleaseOriginalPack POST /stores/:store_id/products/:product_id/release-original-pack
func (h *Handler) ReleaseOriginalPack(c *gin.Context) {
	var req releasePackRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	contents := make([]inventoryapp.ContentInput, len(req.Contents))
	for i, ct := range req.Contents {
		contents[i] = inventoryapp.ContentInput{ProductID: ct.ProductID, Count: ct.Count}
	}
	result, err := h.uc.PackReleases.Execute(c.Request.Context(), inventoryapp.ReleaseOriginalPackCommand{
		StoreID:       c.Param("store_id"),
		PackProductID: c.Param("product_id"),
		PackCount:     req.PackCount,
		Contents:      contents,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := releasePackResponse{
		OpeningID:      result.OpeningID,
		PackProductID:  result.PackProductID,
		PackStock:      result.PackStock,
		TotalCost:      result.TotalCost,
		Contents:       make([]releasedContentResponse, len(result.Contents)),
		HistoryEntries: result.HistoryEntries,
	}
	for i, ct := range result.Contents {
		resp.Contents[i] = releasedContentResponse{
			ProductID:     ct.ProductID,
			Count:         ct.Count,
			AllocatedCost: ct.AllocatedCost,
			StockNumber:   ct.StockNumber,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ===========================
// 組合商品與庫存調整
// ===========================

type bundleRequest struct {
	Count int `json:"count" binding:"required,gt=0"`
}

type stockResponse struct {
	ProductID   string `json:"product_id"`
	StockNumber int    `json:"stock_number"`
}

type bundleResponse struct {
	OperationID string          `json:"operation_id"`
	BundleID    string          `json:"bundle_id"`
	BundleStock int             `json:"bundle_stock"`
	Cost        int64           `json:"cost"`
	Components  []stockResponse `json:"components"`
}

// AssembleBundle POST /stores/:store_id/products/:product_id/bundle
func (h *Handler) AssembleBundle(c *gin.Context) {
	h.runBundle(c, h.uc.Bundles.Assemble)
}

// DisassembleBundle POST /stores/:store_id/products/:product_id/unbundle
func (h *Handler) DisassembleBundle(c *gin.Context) {
	h.runBundle(c, h.uc.Bundles.Disassemble)
}

type bundleOp func(ctx context.Context, cmd inventoryapp.BundleCommand) (*inventoryapp.BundleResult, error)

func (h *Handler) runBundle(c *gin.Context, op bundleOp) {
	var req bundleRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := op(c.Request.Context(), inventoryapp.BundleCommand{
		StoreID:  c.Param("store_id"),
		BundleID: c.Param("product_id"),
		Count:    req.Count,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := bundleResponse{
		OperationID: result.OperationID,
		BundleID:    result.BundleID,
		BundleStock: result.BundleStock,
		Cost:        result.Cost,
		Components:  make([]stockResponse, len(result.Components)),
	}
	for i, comp := range result.Components {
		resp.Components[i] = stockResponse{ProductID: comp.ProductID, StockNumber: comp.StockNumber}
	}
	c.JSON(http.StatusOK, resp)
}

type adjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustStock POST /stores/:store_id/products/:product_id/adjust
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.uc.StockAdjusts.Execute(c.Request.Context(), inventoryapp.AdjustStockCommand{
		StoreID:   c.Param("store_id"),
		ProductID: c.Param("product_id"),
		Delta:     req.Delta,
		Reason:    req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":    result.ProductID,
		"stock_number":  result.StockNumber,
		"consumed_cost": result.ConsumedCost,
	})
}
