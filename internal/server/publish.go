package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) Readiness(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	readiness, err := s.publishSvc.Readiness(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, readiness)
}

type publishRequest struct {
	Actor string `json:"actor"`
}

func (s *Server) Publish(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req publishRequest
	_ = c.ShouldBindJSON(&req) // body optional

	if err := s.publishSvc.Publish(c.Request.Context(), productID, req.Actor); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"published": true})
}

func (s *Server) Unpublish(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req publishRequest
	_ = c.ShouldBindJSON(&req) // body optional

	if err := s.publishSvc.Unpublish(c.Request.Context(), productID, req.Actor); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"published": false})
}

func (s *Server) PublishHistory(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	events, err := s.publishSvc.History(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, events, nil)
}
