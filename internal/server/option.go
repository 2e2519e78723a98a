package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
)

type createOptionTypeRequest struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	ControlHint  string `json:"control_hint"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Server) CreateOptionType(c *gin.Context) {
	var req createOptionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	key := strings.TrimSpace(req.Key)
	if key == "" || strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, optiondomain.ErrInvalidKey)
		return
	}

	existing, err := s.optionRepo.FindTypeByKey(c.Request.Context(), s.db, key)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if existing != nil {
		AbortWithError(c, optiondomain.ErrDuplicateKey)
		return
	}

	hint := optiondomain.ControlHint(req.ControlHint)
	if req.ControlHint == "" {
		hint = optiondomain.ControlSelect
	}

	now := time.Now().UTC()
	t := &optiondomain.OptionType{
		ID:           s.genID.Generate(),
		Key:          key,
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		ControlHint:  hint,
		DisplayOrder: req.DisplayOrder,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.optionRepo.InsertType(c.Request.Context(), s.db, t); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, t)
}

func (s *Server) ListOptionTypes(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	items, err := s.optionRepo.ListTypes(c.Request.Context(), s.db, activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items, nil)
}

type createOptionChoiceRequest struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	WidthMm        *float64 `json:"width_mm"`
	HeightMm       *float64 `json:"height_mm"`
	WeightGsm      *int     `json:"weight_gsm"`
	FinishCategory *string  `json:"finish_category"`
	PriceLinkKey   *string  `json:"price_link_key"`
	DisplayOrder   int      `json:"display_order"`
}

func (s *Server) CreateOptionChoice(c *gin.Context) {
	var req createOptionChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	t, err := s.optionRepo.FindTypeByKey(c.Request.Context(), s.db, c.Param("typeKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if t == nil {
		AbortWithError(c, optiondomain.ErrTypeNotFound)
		return
	}

	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	now := time.Now().UTC()
	choice := &optiondomain.OptionChoice{
		ID:             s.genID.Generate(),
		TypeID:         t.ID,
		Code:           strings.TrimSpace(req.Code),
		Name:           strings.TrimSpace(req.Name),
		WidthMm:        req.WidthMm,
		HeightMm:       req.HeightMm,
		WeightGsm:      req.WeightGsm,
		FinishCategory: req.FinishCategory,
		PriceLinkKey:   req.PriceLinkKey,
		DisplayOrder:   req.DisplayOrder,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.optionRepo.InsertChoice(c.Request.Context(), s.db, choice); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, choice)
}

func (s *Server) ListOptionChoices(c *gin.Context) {
	t, err := s.optionRepo.FindTypeByKey(c.Request.Context(), s.db, c.Param("typeKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if t == nil {
		AbortWithError(c, optiondomain.ErrTypeNotFound)
		return
	}

	items, err := s.optionRepo.ListChoices(c.Request.Context(), s.db, t.ID, c.Query("active") == "true")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items, nil)
}
