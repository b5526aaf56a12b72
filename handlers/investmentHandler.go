package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/workflow"
	"github.com/gin-gonic/gin"
)

func ListInvestmentsHandler(c *gin.Context) {
	var investmentType *models.InvestmentType
	if raw := c.Query("type"); raw != "" {
		t := models.InvestmentType(raw)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment type"})
			return
		}
		investmentType = &t
	}

	investments, err := models.GetInvestments(c.Request.Context(), currentUserId(c), investmentType)
	if err != nil {
		respondError(c, "investmentHandler.go", "ListInvestmentsHandler", err)
		return
	}
	if investments == nil {
		investments = make([]*models.Investment, 0)
	}
	c.JSON(http.StatusOK, investments)
}

func GetInvestmentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	investment, err := models.GetInvestment(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "investmentHandler.go", "GetInvestmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, investment)
}

func CreateInvestmentHandler(c *gin.Context) {
	var input models.NewInvestment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	investment, err := models.CreateInvestment(c.Request.Context(), currentUserId(c), &input)
	if err != nil {
		respondError(c, "investmentHandler.go", "CreateInvestmentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, investment)
}

func UpdateInvestmentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewInvestment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	investment, err := models.UpdateInvestment(c.Request.Context(), currentUserId(c), id, &input)
	if err != nil {
		respondError(c, "investmentHandler.go", "UpdateInvestmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, investment)
}

func DeleteInvestmentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	investment, err := models.DeleteInvestment(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "investmentHandler.go", "DeleteInvestmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, investment)
}

// SimulateInvestmentHandler projects an investment without persisting
// anything. A type without a rate uses the reference rates; omitting both
// rate and type runs the comparison across every type.
func SimulateInvestmentHandler(c *gin.Context) {
	var input workflow.SimulationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.AnnualRate == nil && input.Type == nil {
		simulations, err := workflow.SimulateAllTypes(input.InitialAmount, input.MonthlyContribution, input.Months)
		if err != nil {
			respondError(c, "investmentHandler.go", "SimulateInvestmentHandler", err)
			return
		}
		c.JSON(http.StatusOK, simulations)
		return
	}

	simulation, err := workflow.SimulateInvestment(input)
	if err != nil {
		respondError(c, "investmentHandler.go", "SimulateInvestmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, simulation)
}
