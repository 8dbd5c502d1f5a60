package supportValidators

import (
	"regexp"
	"ssoma/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var validPriority = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true}
var validCategory = map[string]bool{"GENERAL": true, "COURSE": true, "QUIZ": true, "CERTIFICATE": true, "ACCOUNT": true}
var validStatus = map[string]bool{"OPEN": true, "PENDING": true, "CLOSED": true}

func CreateSupportTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Priority    *string `json:"priority"`
			Category    *string `json:"category"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Title validation
		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else {
			if len(reqData.Title) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			if len(reqData.Title) > 100 {
				errors["title"] = "Title must not exceed 100 characters!"
			}
			if matched, _ := regexp.MatchString(`[<>{}]`, reqData.Title); matched {
				errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
			}
		}

		reqData.Description = strings.TrimSpace(reqData.Description)
		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		}

		if reqData.Priority != nil && !validPriority[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Invalid priority! Allowed: LOW, MEDIUM, HIGH"
		}
		if reqData.Category != nil && !validCategory[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Invalid category! Allowed: GENERAL, COURSE, QUIZ, CERTIFICATE, ACCOUNT"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSupportTicket", reqData)
		return c.Next()
	}
}

func ticketListQuery(c *fiber.Ctx, localsKey string) error {
	reqData := new(struct {
		Page     *int    `query:"page"`
		Limit    *int    `query:"limit"`
		Status   *string `query:"status"`
		Priority *string `query:"priority"`
		Category *string `query:"category"`
	})

	if err := c.QueryParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	errors := make(map[string]string)

	if reqData.Page != nil && *reqData.Page < 1 {
		errors["page"] = "Page must be greater than 0!"
	}
	if reqData.Limit != nil && *reqData.Limit < 1 {
		errors["limit"] = "Limit must be greater than 0!"
	}

	if reqData.Status != nil && !validStatus[strings.ToUpper(*reqData.Status)] {
		errors["status"] = "Invalid status! Must be one of: OPEN, PENDING, CLOSED."
	}
	if reqData.Priority != nil && !validPriority[strings.ToUpper(*reqData.Priority)] {
		errors["priority"] = "Invalid priority! Must be one of: LOW, MEDIUM, HIGH."
	}
	if reqData.Category != nil && !validCategory[strings.ToUpper(*reqData.Category)] {
		errors["category"] = "Invalid category! Must be one of: GENERAL, COURSE, QUIZ, CERTIFICATE, ACCOUNT."
	}

	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals(localsKey, reqData)
	return c.Next()
}

func TicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return ticketListQuery(c, "validatedList")
	}
}

func AdminTicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return ticketListQuery(c, "validatedAdminList")
	}
}

func CloseTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TicketID uint `json:"ticketId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TicketID == 0 {
			errors["ticketId"] = "Ticket ID is required and must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCloseTicket", reqData)
		return c.Next()
	}
}
