package server

import (
	"github.com/gin-gonic/gin"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
)

type widgetInitRequest struct {
	Selections map[string]string `json:"selections"`
}

type widgetOption struct {
	TypeKey string   `json:"type_key"`
	Choices []string `json:"choices"`
	Hidden  bool     `json:"hidden,omitempty"`
}

type widgetInitResponse struct {
	Options    []widgetOption               `json:"options"`
	Defaults   map[string]string            `json:"defaults,omitempty"`
	Resets     []string                     `json:"resets,omitempty"`
	Messages   []constraintdomain.Message   `json:"messages,omitempty"`
	Violations []constraintdomain.Violation `json:"violations,omitempty"`
	Warnings   []string                     `json:"warnings,omitempty"`
}

// WidgetInit assembles the option state the configurator widget renders: the
// default recipe's choice sets narrowed by both the dependency links and the
// restrictions fired by the current selection.
func (s *Server) WidgetInit(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req widgetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Selections == nil {
		req.Selections = map[string]string{}
	}

	sets, err := s.recipeSvc.ChoiceSets(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	choices := make(map[string][]string, len(sets))
	for _, set := range sets {
		choices[set.TypeKey] = set.Choices
	}

	outcome, err := s.dependencySvc.Resolve(c.Request.Context(), productID, req.Selections, choices)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	eval, err := s.constraintSvc.Evaluate(c.Request.Context(), productID, constraintdomain.Selection(req.Selections))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	options := make([]widgetOption, 0, len(sets))
	for _, set := range sets {
		visible := set.Choices
		if filtered, ok := outcome.Choices[set.TypeKey]; ok {
			visible = filtered
		}
		kept := make([]string, 0, len(visible))
		for _, code := range visible {
			if eval.Eligible(set.TypeKey, code) {
				kept = append(kept, code)
			}
		}
		options = append(options, widgetOption{
			TypeKey: set.TypeKey,
			Choices: kept,
			Hidden:  outcome.Hidden[set.TypeKey],
		})
	}

	respondData(c, widgetInitResponse{
		Options:    options,
		Defaults:   eval.Defaults,
		Resets:     outcome.Resets,
		Messages:   eval.Messages,
		Violations: eval.Violations,
		Warnings:   outcome.Warnings,
	})
}
