package controllers

import (
	"fmt"
	"log"
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	courseModels "ssoma/models/course"
	"ssoma/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// issueCertificate creates a certificate row when a course reaches PASSED.
// Expiry follows the course's validity window when one is configured.
func issueCertificate(collaborator models.Collaborator, course courseModels.Course) {
	db := database.Database.Db

	// One certificate per pass; re-certification replaces nothing
	var existing courseModels.Certificate
	if err := db.Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, course.ID, false).
		Order("issued_at desc").First(&existing).Error; err == nil {
		if existing.ExpiresAt == nil || existing.ExpiresAt.After(time.Now()) {
			return
		}
	}

	now := time.Now()
	certificate := courseModels.Certificate{
		CollaboratorID:    collaborator.ID,
		CourseID:          course.ID,
		CertificateNumber: fmt.Sprintf("SSOMA-%s", uuid.New().String()),
		IssuedAt:          now,
	}

	if course.ValidityMonths > 0 {
		expiresAt := now.AddDate(0, course.ValidityMonths, 0)
		certificate.ExpiresAt = &expiresAt
	}

	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("Error issuing certificate for collaborator %d course %d: %v", collaborator.ID, course.ID, err)
		return
	}

	utils.NotifyCertificateIssued(collaborator.ID, course.Title, certificate.CertificateNumber)
}

// GetUserCertificates lists the caller's certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&collaborator).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("collaborator_id = ? AND is_deleted = ?", collaborator.ID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
