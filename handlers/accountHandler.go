package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/gin-gonic/gin"
)

func ListAccountsHandler(c *gin.Context) {
	var accountType *models.AccountType
	if raw := c.Query("type"); raw != "" {
		t := models.AccountType(raw)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account type"})
			return
		}
		accountType = &t
	}

	accounts, err := models.GetAccounts(c.Request.Context(), currentUserId(c), accountType)
	if err != nil {
		respondError(c, "accountHandler.go", "ListAccountsHandler", err)
		return
	}
	if accounts == nil {
		accounts = make([]*models.Account, 0)
	}
	c.JSON(http.StatusOK, accounts)
}

func GetAccountHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	account, err := models.GetAccount(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "accountHandler.go", "GetAccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func CreateAccountHandler(c *gin.Context) {
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := models.CreateAccount(c.Request.Context(), currentUserId(c), &input)
	if err != nil {
		respondError(c, "accountHandler.go", "CreateAccountHandler", err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func UpdateAccountHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := models.UpdateAccount(c.Request.Context(), currentUserId(c), id, &input)
	if err != nil {
		respondError(c, "accountHandler.go", "UpdateAccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func DeleteAccountHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	account, err := models.DeleteAccount(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "accountHandler.go", "DeleteAccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, account)
}
