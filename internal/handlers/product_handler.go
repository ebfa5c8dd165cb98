package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/product"
)

type ProductHandler struct {
	catalog *product.Catalog
	log     *zap.Logger
}

func NewProductHandler(catalog *product.Catalog, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
}

func (r ProductRequest) input() product.Input {
	return product.Input{Name: r.Name, Description: r.Description, Price: r.Price}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.catalog.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !bind(c, &req) {
		return
	}

	p, err := h.catalog.Create(c.Request.Context(), middleware.Actor(c), req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if !bind(c, &req) {
		return
	}

	p, err := h.catalog.Update(c.Request.Context(), middleware.Actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}
