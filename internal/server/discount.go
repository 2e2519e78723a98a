package server

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
	"github.com/shopspring/decimal"
)

type discountTierSpec struct {
	Label        string          `json:"label"`
	QtyMin       int             `json:"qty_min"`
	QtyMax       int             `json:"qty_max"`
	Rate         decimal.Decimal `json:"rate"`
	DisplayOrder int             `json:"display_order"`
}

func (t discountTierSpec) validate() error {
	if t.Label == "" {
		return fmt.Errorf("%w: empty label", discountdomain.ErrInvalidTier)
	}
	if t.QtyMin < 1 || t.QtyMax < t.QtyMin {
		return fmt.Errorf("%w: qty range %d..%d", discountdomain.ErrInvalidTier, t.QtyMin, t.QtyMax)
	}
	if !t.Rate.IsPositive() || t.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: rate %s outside (0,1)", discountdomain.ErrInvalidTier, t.Rate)
	}
	return nil
}

func (s *Server) AddDiscountTier(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	s.insertTier(c, &productID)
}

// AddGlobalDiscountTier inserts a tier that applies to every product without
// a product-scoped tier covering the same quantity.
func (s *Server) AddGlobalDiscountTier(c *gin.Context) {
	s.insertTier(c, nil)
}

func (s *Server) insertTier(c *gin.Context, productID *snowflake.ID) {
	var spec discountTierSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := spec.validate(); err != nil {
		AbortWithError(c, err)
		return
	}

	tier := &discountdomain.QtyDiscountTier{
		ID:           s.genID.Generate(),
		ProductID:    productID,
		Label:        spec.Label,
		QtyMin:       spec.QtyMin,
		QtyMax:       spec.QtyMax,
		Rate:         spec.Rate,
		DisplayOrder: spec.DisplayOrder,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.discountRepo.Insert(c.Request.Context(), s.db, tier); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tier)
}

// ListDiscountTiers returns the product's tiers plus the global ones, in the
// resolution order the quote path uses.
func (s *Server) ListDiscountTiers(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	tiers, err := s.discountRepo.ListForProduct(c.Request.Context(), s.db, productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, tiers, nil)
}

func (s *Server) DeleteDiscountTier(c *gin.Context) {
	if _, ok := pathID(c, "productId"); !ok {
		return
	}
	tierID, ok := pathID(c, "tierId")
	if !ok {
		return
	}

	if err := s.discountRepo.Delete(c.Request.Context(), s.db, tierID); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": tierID})
}
