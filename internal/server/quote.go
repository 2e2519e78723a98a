package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
	quotedomain "github.com/printlabs/pressconfig/internal/quote/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type quoteRequest struct {
	Selections map[string]string `json:"selections"`
	Quantity   int               `json:"quantity"`
	AreaSqm    decimal.Decimal   `json:"area_sqm"`
	Pages      int               `json:"pages,omitempty"`
	PlateType  string            `json:"plate_type,omitempty"`
	PrintMode  string            `json:"print_mode,omitempty"`
	Processes  []string          `json:"processes,omitempty"`
}

type quoteResponse struct {
	Valid      bool                         `json:"valid"`
	Violations []constraintdomain.Violation `json:"violations,omitempty"`
	Messages   []constraintdomain.Message   `json:"messages,omitempty"`
	FiredRules []string                     `json:"fired_rules,omitempty"`
	Quote      *pricingdomain.Quote         `json:"quote,omitempty"`
}

// Quote runs the rule engine over the selection and, when it passes, prices
// it. Rule violations return 200 with valid=false rather than an error; the
// caller needs the violation detail to fix the selection.
func (s *Server) Quote(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Quantity <= 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	eval, err := s.constraintSvc.Evaluate(c.Request.Context(), productID, constraintdomain.Selection(req.Selections))
	if err != nil {
		s.metrics.quoteRequests.WithLabelValues("error").Inc()
		AbortWithError(c, err)
		return
	}

	resp := quoteResponse{
		Valid:      eval.Valid(),
		Violations: eval.Violations,
		Messages:   eval.Messages,
		FiredRules: eval.FiredRuleNames,
	}

	if eval.Valid() {
		quote, err := s.pricingSvc.Price(c.Request.Context(), productID, pricingdomain.PriceRequest{
			Quantity:     req.Quantity,
			AreaSqm:      req.AreaSqm,
			Pages:        req.Pages,
			PlateType:    req.PlateType,
			PrintMode:    req.PrintMode,
			Processes:    req.Processes,
			ModeOverride: pricingdomain.Mode(eval.PriceMode),
		})
		if err != nil {
			s.metrics.quoteRequests.WithLabelValues("error").Inc()
			AbortWithError(c, err)
			return
		}
		resp.Quote = quote
		s.metrics.quoteRequests.WithLabelValues("valid").Inc()
	} else {
		s.metrics.quoteRequests.WithLabelValues("invalid").Inc()
	}

	s.logQuote(productID, req, resp)
	respondData(c, resp)
}

// logQuote records the request off the hot path; a failed insert only logs.
func (s *Server) logQuote(productID snowflake.ID, req quoteRequest, resp quoteResponse) {
	raw, err := json.Marshal(req.Selections)
	if err != nil {
		return
	}
	entry := &quotedomain.QuoteLog{
		ID:         s.genID.Generate(),
		ProductID:  productID,
		Selections: datatypes.JSON(raw),
		Quantity:   req.Quantity,
		Valid:      resp.Valid,
		CreatedAt:  time.Now().UTC(),
	}
	if resp.Quote != nil {
		entry.TotalPrice = resp.Quote.Total
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.quoteRepo.Insert(ctx, s.db, entry); err != nil {
			s.log.Warn("quote log insert failed", zap.Error(err))
		}
	}()
}
