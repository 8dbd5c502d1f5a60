package utils

import (
	"log"
	"ssoma/database"
	courseModels "ssoma/models/course"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeTrainingScheduler sets up the certification expiry scheduler
func InitializeTrainingScheduler() {
	log.Println("[TRAINING-SCHEDULER] Initializing training scheduler...")

	c := cron.New()

	// Run daily at 7 AM to process certification expiry
	c.AddFunc("0 7 * * *", func() {
		log.Println("[TRAINING-SCHEDULER] Running daily certification check...")
		ProcessExpiringCertificates()
		ExpireCertifications()
	})

	c.Start()
	log.Println("[TRAINING-SCHEDULER] Training scheduler started - runs daily at 7 AM")
}

// ProcessExpiringCertificates sends reminders for certificates expiring
// within 30 days
func ProcessExpiringCertificates() {
	db := database.Database.Db
	now := time.Now()
	thirtyDaysFromNow := now.AddDate(0, 0, 30)

	var expiringCertificates []courseModels.Certificate
	if err := db.
		Where("reminder_sent = false AND expires_at IS NOT NULL AND is_deleted = ?", false).
		Where("expires_at BETWEEN ? AND ?", now, thirtyDaysFromNow).
		Find(&expiringCertificates).Error; err != nil {
		log.Printf("[TRAINING-SCHEDULER] Error fetching expiring certificates: %v", err)
		return
	}

	log.Printf("[TRAINING-SCHEDULER] Found %d certificates expiring soon", len(expiringCertificates))

	for _, certificate := range expiringCertificates {
		var course courseModels.Course
		if err := db.Where("id = ?", certificate.CourseID).First(&course).Error; err != nil {
			log.Printf("[TRAINING-SCHEDULER] Error fetching course %d: %v", certificate.CourseID, err)
			continue
		}

		NotifyCertificateExpiring(certificate.CollaboratorID, course.Title, certificate.ExpiresAt.Format("January 2, 2006"))

		db.Model(&certificate).Update("reminder_sent", true)
		log.Printf("[TRAINING-SCHEDULER] Sent expiry reminder for certificate %d", certificate.ID)
	}
}

// ExpireCertifications marks course progress EXPIRED once the backing
// certificate has lapsed, so the collaborator shows as non-compliant.
func ExpireCertifications() {
	db := database.Database.Db
	now := time.Now()

	var expiredCertificates []courseModels.Certificate
	if err := db.
		Where("expires_at IS NOT NULL AND expires_at < ? AND is_deleted = ?", now, false).
		Find(&expiredCertificates).Error; err != nil {
		log.Printf("[TRAINING-SCHEDULER] Error fetching expired certificates: %v", err)
		return
	}

	expired := 0
	for _, certificate := range expiredCertificates {
		result := db.Model(&courseModels.CourseProgress{}).
			Where("collaborator_id = ? AND course_id = ? AND status = ?", certificate.CollaboratorID, certificate.CourseID, courseModels.ProgressPassed).
			Update("status", courseModels.ProgressExpired)
		if result.Error != nil {
			log.Printf("[TRAINING-SCHEDULER] Error expiring course progress: %v", result.Error)
			continue
		}
		expired += int(result.RowsAffected)
	}

	if expired > 0 {
		log.Printf("[TRAINING-SCHEDULER] Expired %d certifications", expired)
	}
}
