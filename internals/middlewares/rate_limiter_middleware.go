package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "gabconcours_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, msg string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, msg)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "Trop de requêtes. Réessayez plus tard.")
}

// Login admin & candidat (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Trop de tentatives de connexion. Réessayez dans un instant.")
}

// Inscription candidat
func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "Trop d'inscriptions depuis cette adresse. Patientez quelques minutes.")
}

// Formulaire support public
func SupportRateLimiter() fiber.Handler {
	return newLimiter(5, 10*time.Minute, "Trop de demandes envoyées. Réessayez dans 10 minutes.")
}
