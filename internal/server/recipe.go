package server

import (
	"github.com/gin-gonic/gin"
	recipedomain "github.com/printlabs/pressconfig/internal/recipe/domain"
)

type createRecipeRequest struct {
	Name      string                     `json:"name"`
	IsDefault bool                       `json:"is_default"`
	Bindings  []recipedomain.BindingSpec `json:"bindings"`
}

func (s *Server) CreateRecipe(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	r, err := s.recipeSvc.Create(c.Request.Context(), recipedomain.CreateRequest{
		ProductID: productID,
		Name:      req.Name,
		IsDefault: req.IsDefault,
		Bindings:  req.Bindings,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, r)
}

type replaceBindingsRequest struct {
	Bindings []recipedomain.BindingSpec `json:"bindings"`
}

func (s *Server) ReplaceRecipeBindings(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipeId")
	if !ok {
		return
	}
	var req replaceBindingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	r, err := s.recipeSvc.ReplaceBindings(c.Request.Context(), recipedomain.ReplaceBindingsRequest{
		ProductID: productID,
		RecipeID:  recipeID,
		Bindings:  req.Bindings,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, r)
}

func (s *Server) SetDefaultRecipe(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipeId")
	if !ok {
		return
	}

	if err := s.recipeSvc.SetDefault(c.Request.Context(), productID, recipeID); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"default_recipe_id": recipeID})
}

func (s *Server) GetDefaultRecipe(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	r, bindings, err := s.recipeSvc.Default(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"recipe": r, "bindings": bindings})
}
