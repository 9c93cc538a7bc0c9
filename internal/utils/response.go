package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses. Retryable is
// set on transient upstream failures so clients can offer a retry action
// instead of mistaking the error for an empty result.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}

// SendTransientError sends an error response flagged as retryable.
func SendTransientError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "temporary failure"
	}

	return c.Status(status).JSON(APIResponse{
		Success:   false,
		Message:   message,
		Retryable: true,
	})
}
