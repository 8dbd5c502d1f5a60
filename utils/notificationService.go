package utils

import (
	"log"
	"ssoma/database"
	"ssoma/models"
)

// createNotification stores an in-app notification and fans it out to the
// collaborator's email when one is on file.
func createNotification(collaboratorID uint, notifType, title, message string) {
	db := database.Database.Db

	notification := models.Notification{
		CollaboratorID: collaboratorID,
		Type:           notifType,
		Title:          title,
		Message:        message,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Error creating notification for collaborator %d: %v", collaboratorID, err)
		return
	}
}

// collaboratorEmail resolves the email and display name behind a collaborator
func collaboratorEmail(collaboratorID uint) (string, string, bool) {
	db := database.Database.Db

	var collaborator models.Collaborator
	if err := db.Where("id = ? AND is_deleted = ?", collaboratorID, false).First(&collaborator).Error; err != nil {
		return "", "", false
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", collaborator.UserID, false).First(&user).Error; err != nil {
		return "", "", false
	}

	name := collaborator.FirstName
	if name == "" {
		name = user.Name
	}
	return user.Email, name, true
}

// NotifyCourseAssigned records an enrollment notification
func NotifyCourseAssigned(collaboratorID uint, courseTitle string) {
	createNotification(collaboratorID, "COURSE_ASSIGNED", "New training assigned",
		"You have been enrolled in \""+courseTitle+"\".")

	if email, name, ok := collaboratorEmail(collaboratorID); ok {
		SendCourseAssignedEmail(email, name, courseTitle)
	}
}

// NotifyCoursePassed records a completion notification
func NotifyCoursePassed(collaboratorID uint, courseTitle string) {
	createNotification(collaboratorID, "COURSE_PASSED", "Training completed",
		"You have completed \""+courseTitle+"\".")

	if email, name, ok := collaboratorEmail(collaboratorID); ok {
		SendCoursePassedEmail(email, name, courseTitle)
	}
}

// NotifyCertificateIssued records a certificate notification
func NotifyCertificateIssued(collaboratorID uint, courseTitle, certificateNumber string) {
	createNotification(collaboratorID, "CERTIFICATE_ISSUED", "Certificate issued",
		"Your certificate for \""+courseTitle+"\" is ready: "+certificateNumber)

	if email, name, ok := collaboratorEmail(collaboratorID); ok {
		SendCertificateEmail(email, name, courseTitle, certificateNumber)
	}
}

// NotifyQuizFailed records a remediation-required notification
func NotifyQuizFailed(collaboratorID uint, quizTitle string) {
	createNotification(collaboratorID, "REMEDIATION_REQUIRED", "Evaluation not passed",
		"You did not pass \""+quizTitle+"\". Complete the remediation material before retrying.")

	if email, name, ok := collaboratorEmail(collaboratorID); ok {
		SendQuizFailedEmail(email, name, quizTitle)
	}
}

// NotifyCertificateExpiring records an expiry reminder notification
func NotifyCertificateExpiring(collaboratorID uint, courseTitle, expiryStr string) {
	createNotification(collaboratorID, "CERTIFICATE_EXPIRING", "Certification expiring",
		"Your certification for \""+courseTitle+"\" expires on "+expiryStr+".")

	if email, name, ok := collaboratorEmail(collaboratorID); ok {
		SendCertificateExpiryReminder(email, name, courseTitle, expiryStr)
	}
}
