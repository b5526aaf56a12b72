package handlers

import (
	"net/http"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

func UpdateProfileHandler(c *gin.Context) {
	var input models.UserProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := models.UpdateUserProfile(c.Request.Context(), currentUserId(c), &input)
	if err != nil {
		respondError(c, "userHandler.go", "UpdateProfileHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadAvatarHandler accepts a multipart "avatar" file, stores the resized
// image and saves its URL on the profile.
func UploadAvatarHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, "userHandler.go", "UploadAvatarHandler", err)
		return
	}
	defer file.Close()

	userId := currentUserId(c)
	url, err := utils.UploadAvatar(c.Request.Context(), userId, file)
	if err != nil {
		respondError(c, "userHandler.go", "UploadAvatarHandler", err)
		return
	}

	user, err := models.UpdateUserProfile(c.Request.Context(), userId, &models.UserProfileUpdate{Avatar: url})
	if err != nil {
		respondError(c, "userHandler.go", "UploadAvatarHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
