package utils

import (
	"log"
	"ssoma/config"
	"time"

	"github.com/go-resty/resty/v2"
)

// SendCourseCompletionWebhook pushes a completion event to the external HR
// system, when one is configured. Best effort; failures are logged and the
// next sync run picks them up.
func SendCourseCompletionWebhook(documentNumber, courseTitle string, timeSpentSec int64) {
	if config.AppConfig.HRWebhookURL == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.HRWebhookKey).
		SetBody(map[string]interface{}{
			"event":           "course_completed",
			"document_number": documentNumber,
			"course":          courseTitle,
			"time_spent_sec":  timeSpentSec,
			"completed_at":    time.Now().Format(time.RFC3339),
		}).
		Post(config.AppConfig.HRWebhookURL)
	if err != nil {
		log.Printf("[HR-WEBHOOK] Error posting completion event: %v", err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("[HR-WEBHOOK] Completion event rejected: %d %s", resp.StatusCode(), resp.String())
	}
}
