package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
	dependencydomain "github.com/printlabs/pressconfig/internal/dependency/domain"
	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
	productdomain "github.com/printlabs/pressconfig/internal/product/domain"
	publishdomain "github.com/printlabs/pressconfig/internal/publish/domain"
	recipedomain "github.com/printlabs/pressconfig/internal/recipe/domain"
	simulationdomain "github.com/printlabs/pressconfig/internal/simulation/domain"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Message }

func invalidRequestError() error {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body or parameters"}
}

// AbortWithError maps domain errors onto HTTP statuses. Precondition
// failures (oversized combination spaces, publish gates) use 412 so clients
// can distinguish "fix your data" from "add an explicit flag".
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	status, code := classify(err)
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}

func classify(err error) (int, string) {
	var tooLarge *simulationdomain.TooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusPreconditionFailed, "combination_space_too_large"
	}
	var blocked *publishdomain.PublishError
	if errors.As(err, &blocked) {
		return http.StatusPreconditionFailed, "publish_blocked"
	}

	switch {
	case errors.Is(err, productdomain.ErrProductNotFound),
		errors.Is(err, publishdomain.ErrProductNotFound),
		errors.Is(err, optiondomain.ErrTypeNotFound),
		errors.Is(err, recipedomain.ErrRecipeNotFound),
		errors.Is(err, constraintdomain.ErrConstraintNotFound),
		errors.Is(err, dependencydomain.ErrDependencyNotFound),
		errors.Is(err, simulationdomain.ErrRunNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, constraintdomain.ErrCycleDetected):
		return http.StatusConflict, "dependency_cycle"

	case errors.Is(err, simulationdomain.ErrRunNotFinished):
		return http.StatusConflict, "run_not_finished"

	case errors.Is(err, recipedomain.ErrNoDefaultRecipe),
		errors.Is(err, pricingdomain.ErrNoPriceConfig),
		errors.Is(err, simulationdomain.ErrNothingToRun):
		return http.StatusPreconditionFailed, "incomplete_configuration"

	case errors.Is(err, productdomain.ErrInvalidProduct),
		errors.Is(err, optiondomain.ErrInvalidKey),
		errors.Is(err, optiondomain.ErrDuplicateKey),
		errors.Is(err, recipedomain.ErrInvalidProduct),
		errors.Is(err, recipedomain.ErrEmptyBindingSet),
		errors.Is(err, recipedomain.ErrUnknownTypeKey),
		errors.Is(err, recipedomain.ErrArchivedRecipe),
		errors.Is(err, constraintdomain.ErrInvalidTrigger),
		errors.Is(err, constraintdomain.ErrInvalidAction),
		errors.Is(err, constraintdomain.ErrEmptyActionSet),
		errors.Is(err, dependencydomain.ErrInvalidDependency),
		errors.Is(err, discountdomain.ErrInvalidTier),
		errors.Is(err, pricingdomain.ErrInvalidMode),
		errors.Is(err, pricingdomain.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_request"
	}

	return http.StatusInternalServerError, "internal"
}
