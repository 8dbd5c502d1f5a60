package userController

import (
	"errors"
	"log"
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Password = ""

	var collaborator models.Collaborator
	err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userId, false).First(&collaborator).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", fiber.Map{
			"user":         user,
			"collaborator": nil,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", fiber.Map{
		"user":         user,
		"collaborator": collaborator,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name         *string `json:"name"`
		Mobile       *string `json:"mobile"`
		ProfileImage *string `json:"profileImage"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if reqData.Name != nil {
		user.Name = *reqData.Name
	}
	if reqData.Mobile != nil {
		user.Mobile = *reqData.Mobile
	}
	if reqData.ProfileImage != nil {
		user.ProfileImage = *reqData.ProfileImage
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error updating user profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

// UpsertCollaboratorProfile creates or updates the worker profile that
// training records hang off.
func UpsertCollaboratorProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCollaborator").(*struct {
		FirstName      string  `json:"first_name"`
		LastName       string  `json:"last_name"`
		DocumentNumber string  `json:"document_number"`
		Position       *string `json:"position"`
		Area           *string `json:"area"`
		HireDate       *string `json:"hire_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var hireDate *time.Time
	if reqData.HireDate != nil {
		parsed, err := time.Parse("2006-01-02", *reqData.HireDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid hire date! Use YYYY-MM-DD.", nil)
		}
		hireDate = &parsed
	}

	// Document numbers are unique across collaborators
	var duplicate models.Collaborator
	if err := database.Database.Db.Where("document_number = ? AND user_id != ? AND is_deleted = ?", reqData.DocumentNumber, userId, false).First(&duplicate).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Document number is already registered!", nil)
	}

	var collaborator models.Collaborator
	err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userId, false).First(&collaborator).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch collaborator profile!", nil)
		}

		collaborator = models.Collaborator{
			UserID:         userId,
			FirstName:      reqData.FirstName,
			LastName:       reqData.LastName,
			DocumentNumber: reqData.DocumentNumber,
			HireDate:       hireDate,
		}
		if reqData.Position != nil {
			collaborator.Position = *reqData.Position
		}
		if reqData.Area != nil {
			collaborator.Area = *reqData.Area
		}

		if err := database.Database.Db.Create(&collaborator).Error; err != nil {
			log.Printf("Error creating collaborator profile: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create collaborator profile!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Collaborator profile created successfully.", collaborator)
	}

	collaborator.FirstName = reqData.FirstName
	collaborator.LastName = reqData.LastName
	collaborator.DocumentNumber = reqData.DocumentNumber
	if hireDate != nil {
		collaborator.HireDate = hireDate
	}
	if reqData.Position != nil {
		collaborator.Position = *reqData.Position
	}
	if reqData.Area != nil {
		collaborator.Area = *reqData.Area
	}

	if err := database.Database.Db.Save(&collaborator).Error; err != nil {
		log.Printf("Error updating collaborator profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update collaborator profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Collaborator profile updated successfully.", collaborator)
}

func NotificationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userId, false).First(&collaborator).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
	}

	reqData, ok := c.Locals("validatedNotificationList").(*struct {
		Page   *int  `query:"page"`
		Limit  *int  `query:"limit"`
		Unread *bool `query:"unread"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := 1
	limit := 10
	if reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Notification{}).Where("collaborator_id = ? AND is_deleted = ?", collaborator.ID, false)
	if reqData.Unread != nil && *reqData.Unread {
		db = db.Where("is_read = ?", false)
	}

	var total int64
	db.Count(&total)

	var notifications []models.Notification
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully.", fiber.Map{
		"notifications": notifications,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationId, ok := c.Locals("notificationID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification ID!", nil)
	}

	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userId, false).First(&collaborator).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
	}

	var notification models.Notification
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", notificationId, false).First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if notification.CollaboratorID != collaborator.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := database.Database.Db.Save(&notification).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", notification)
}
