package server

import (
	"github.com/gin-gonic/gin"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
)

func (s *Server) CreateConstraint(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var spec constraintdomain.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.constraintSvc.Create(c.Request.Context(), productID, spec)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) ListConstraints(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	items, err := s.constraintSvc.List(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items, nil)
}

func (s *Server) UpdateConstraint(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	id, ok := pathID(c, "constraintId")
	if !ok {
		return
	}
	var spec constraintdomain.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.constraintSvc.Update(c.Request.Context(), productID, id, spec)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) DeleteConstraint(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	id, ok := pathID(c, "constraintId")
	if !ok {
		return
	}

	if err := s.constraintSvc.Delete(c.Request.Context(), productID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": id})
}

type toggleConstraintRequest struct {
	Active bool `json:"active"`
}

func (s *Server) ToggleConstraint(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	id, ok := pathID(c, "constraintId")
	if !ok {
		return
	}
	var req toggleConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.constraintSvc.SetActive(c.Request.Context(), productID, id, req.Active); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"id": id, "active": req.Active})
}

func (s *Server) PreviewConstraintCycle(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var spec constraintdomain.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	preview, err := s.constraintSvc.PreviewCycle(c.Request.Context(), productID, spec)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, preview)
}
