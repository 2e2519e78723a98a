package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	productdomain "github.com/printlabs/pressconfig/internal/product/domain"
)

type createProductRequest struct {
	ProductKey   string  `json:"product_key"`
	Name         string  `json:"name"`
	DisplayOrder int     `json:"display_order"`
	EditorCode   *string `json:"editor_code"`
	MesItemCode  *string `json:"mes_item_code"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	key := strings.TrimSpace(req.ProductKey)
	name := strings.TrimSpace(req.Name)
	if key == "" || name == "" {
		AbortWithError(c, productdomain.ErrInvalidProduct)
		return
	}

	now := time.Now().UTC()
	p := &productdomain.Product{
		ID:           s.genID.Generate(),
		ProductKey:   key,
		Name:         name,
		DisplayOrder: req.DisplayOrder,
		Active:       true,
		EditorCode:   req.EditorCode,
		MesItemCode:  req.MesItemCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.productRepo.Insert(c.Request.Context(), s.db, p); err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, p)
}

func (s *Server) ListProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	items, err := s.productRepo.List(c.Request.Context(), s.db, activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items, nil)
}

func (s *Server) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	p, err := s.productRepo.FindByID(c.Request.Context(), s.db, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if p == nil {
		AbortWithError(c, productdomain.ErrProductNotFound)
		return
	}
	respondData(c, p)
}
