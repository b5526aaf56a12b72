package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/workflow"
	"github.com/gin-gonic/gin"
)

func ListTransactionsHandler(c *gin.Context) {
	startDate, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	filter := models.TransactionFilter{
		AccountId:  queryInt(c, "account_id"),
		CategoryId: queryInt(c, "category_id"),
		Type:       models.TransactionType(c.Query("type")),
		StartDate:  startDate,
		EndDate:    endDate,
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}

	transactions, err := models.GetTransactions(c.Request.Context(), currentUserId(c), filter)
	if err != nil {
		respondError(c, "transactionHandler.go", "ListTransactionsHandler", err)
		return
	}
	if transactions == nil {
		transactions = make([]*models.Transaction, 0)
	}
	c.JSON(http.StatusOK, transactions)
}

func GetTransactionHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	transaction, err := models.GetTransaction(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "transactionHandler.go", "GetTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// CreateTransactionHandler goes through the reconciler so the ledger write
// and the account balance move together.
func CreateTransactionHandler(c *gin.Context) {
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := workflow.CreateTransaction(c.Request.Context(), currentUserId(c), &input)
	if err != nil {
		respondError(c, "transactionHandler.go", "CreateTransactionHandler", err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func UpdateTransactionHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var changes models.TransactionChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := workflow.UpdateTransaction(c.Request.Context(), currentUserId(c), id, &changes)
	if err != nil {
		respondError(c, "transactionHandler.go", "UpdateTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func DeleteTransactionHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	transaction, err := workflow.DeleteTransaction(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "transactionHandler.go", "DeleteTransactionHandler", err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}
