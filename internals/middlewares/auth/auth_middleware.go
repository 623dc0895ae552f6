// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	helper "gabconcours_backend/internals/helpers"
)

// AuthJWT memverifikasi Bearer token (atau cookie access_token) lalu menyimpan
// role, admin_id / nupcan, dan etablissement_id ke Locals.
func AuthJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			log.Error().Msg("JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		claims := &Claims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token invalide ou expiré")
		}

		if err := storeClaimsToLocals(c, claims); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		return c.Next()
	}
}
