package server

import (
	"github.com/gin-gonic/gin"
	dependencydomain "github.com/printlabs/pressconfig/internal/dependency/domain"
)

func (s *Server) CreateDependency(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var spec dependencydomain.LinkSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.dependencySvc.Create(c.Request.Context(), productID, spec)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

func (s *Server) ListDependencies(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	items, err := s.dependencySvc.List(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, items, nil)
}

func (s *Server) DeleteDependency(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	id, ok := pathID(c, "dependencyId")
	if !ok {
		return
	}

	if err := s.dependencySvc.Delete(c.Request.Context(), productID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": id})
}
