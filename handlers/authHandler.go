package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

func RegisterHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := models.RegisterUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "authHandler.go", "RegisterHandler", err)
		return
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		respondError(c, "authHandler.go", "RegisterHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func LoginHandler(c *gin.Context) {
	var input models.UserCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := models.AuthenticateUser(c.Request.Context(), &input)
	if err != nil {
		// a wrong password and an unknown email answer identically
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		respondError(c, "authHandler.go", "LoginHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func MeHandler(c *gin.Context) {
	user, err := models.GetUser(c.Request.Context(), currentUserId(c))
	if err != nil {
		respondError(c, "authHandler.go", "MeHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
