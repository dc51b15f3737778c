package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pregoway/pregoway/internal/models"
)

const (
	authCookieName     = "pregoway_auth"
	languageCookieName = "pregoway_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}
