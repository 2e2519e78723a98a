package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	simulationdomain "github.com/printlabs/pressconfig/internal/simulation/domain"
	"github.com/printlabs/pressconfig/pkg/db/pagination"
)

func (s *Server) StartSimulation(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req simulationdomain.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	run, err := s.simulationSvc.Start(c.Request.Context(), productID, req)
	if err != nil {
		s.metrics.simulationRuns.WithLabelValues("rejected").Inc()
		AbortWithError(c, err)
		return
	}
	s.metrics.simulationRuns.WithLabelValues(string(run.Status)).Inc()
	respondData(c, run)
}

func (s *Server) GetSimulation(c *gin.Context) {
	runID, ok := pathID(c, "runId")
	if !ok {
		return
	}

	run, err := s.simulationSvc.Run(c.Request.Context(), runID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, run)
}

func (s *Server) ListSimulations(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	runs, total, err := s.simulationSvc.ListRuns(c.Request.Context(), productID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	info := pagination.BuildPageInfo(page, total)
	respondList(c, runs, &info)
}

func (s *Server) ListSimulationCases(c *gin.Context) {
	runID, ok := pathID(c, "runId")
	if !ok {
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := simulationdomain.CaseStatus(c.Query("status"))
	cases, total, err := s.simulationSvc.Cases(c.Request.Context(), runID, status, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	info := pagination.BuildPageInfo(page, total)
	respondList(c, cases, &info)
}

func (s *Server) ExportSimulation(c *gin.Context) {
	runID, ok := pathID(c, "runId")
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=simulation-%s.csv", runID))
	if err := s.simulationSvc.ExportCSV(c.Request.Context(), runID, c.Writer); err != nil {
		AbortWithError(c, err)
		return
	}
}
