package server

import (
	"github.com/gin-gonic/gin"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
)

func (s *Server) SavePriceConfig(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var spec pricingdomain.ConfigSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cfg, err := s.pricingSvc.SaveConfig(c.Request.Context(), productID, spec)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, cfg)
}

func (s *Server) GetPriceConfig(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	cfg, err := s.pricingSvc.Config(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, cfg)
}

func (s *Server) AddPrintCostRow(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var row pricingdomain.PrintCostRow
	if err := c.ShouldBindJSON(&row); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	saved, err := s.pricingSvc.AddPrintRow(c.Request.Context(), productID, row)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, saved)
}

func (s *Server) AddPostprocessCostRow(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var row pricingdomain.PostprocessCostRow
	if err := c.ShouldBindJSON(&row); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	saved, err := s.pricingSvc.AddProcessRow(c.Request.Context(), &productID, row)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, saved)
}

// AddGlobalPostprocessCostRow inserts a process row shared by every product
// that has no product-scoped row for the same process key.
func (s *Server) AddGlobalPostprocessCostRow(c *gin.Context) {
	var row pricingdomain.PostprocessCostRow
	if err := c.ShouldBindJSON(&row); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	saved, err := s.pricingSvc.AddProcessRow(c.Request.Context(), nil, row)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, saved)
}
