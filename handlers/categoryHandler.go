package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/gin-gonic/gin"
)

func ListCategoriesHandler(c *gin.Context) {
	var categoryType *models.CategoryType
	if raw := c.Query("type"); raw != "" {
		t := models.CategoryType(raw)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category type"})
			return
		}
		categoryType = &t
	}

	categories, err := models.GetCategories(c.Request.Context(), categoryType)
	if err != nil {
		respondError(c, "categoryHandler.go", "ListCategoriesHandler", err)
		return
	}
	if categories == nil {
		categories = make([]*models.Category, 0)
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategoryHandler(c *gin.Context) {
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "categoryHandler.go", "CreateCategoryHandler", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategoryHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "categoryHandler.go", "UpdateCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategoryHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	category, err := models.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "categoryHandler.go", "DeleteCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}
