// internals/middlewares/auth/claims_utils.go
package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"gabconcours_backend/internals/constants"
)

// Locals keys
const (
	LocalRole            = "role"
	LocalAdminID         = "admin_id"
	LocalNupcan          = "nupcan"
	LocalEtablissementID = "etablissement_id"
)

// Claims: Subject = admin id (admin/super_admin) atau NUPCAN (candidat).
type Claims struct {
	Role            string `json:"role"`
	EtablissementID *uint  `json:"etablissement_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken menandatangani token HS256 dengan masa berlaku ttl.
func IssueToken(secret string, ttl time.Duration, subject, role string, etablissementID *uint) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("missing JWT secret")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Role:            role,
		EtablissementID: etablissementID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "gabconcours",
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return tok, exp, err
}

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("Token manquant")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("Format de token invalide")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("Token vide")
	}
	return tok, nil
}

func storeClaimsToLocals(c *fiber.Ctx, claims *Claims) error {
	switch claims.Role {
	case constants.RoleAdmin, constants.RoleSuperAdmin:
		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("Identifiant administrateur invalide")
		}
		c.Locals(LocalAdminID, uint(id))
		if claims.EtablissementID != nil {
			c.Locals(LocalEtablissementID, *claims.EtablissementID)
		}
	case constants.RoleCandidat:
		if strings.TrimSpace(claims.Subject) == "" {
			return fmt.Errorf("NUPCAN manquant")
		}
		c.Locals(LocalNupcan, claims.Subject)
	default:
		return fmt.Errorf("Rôle inconnu")
	}
	c.Locals(LocalRole, claims.Role)
	return nil
}

/* ======== Accessors untuk controller ======== */

func Role(c *fiber.Ctx) string {
	r, _ := c.Locals(LocalRole).(string)
	return r
}

func AdminID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalAdminID).(uint)
	return id, ok && id > 0
}

func Nupcan(c *fiber.Ctx) (string, bool) {
	n, ok := c.Locals(LocalNupcan).(string)
	return n, ok && n != ""
}

func EtablissementID(c *fiber.Ctx) *uint {
	if id, ok := c.Locals(LocalEtablissementID).(uint); ok {
		return &id
	}
	return nil
}

func IsAdmin(c *fiber.Ctx) bool {
	r := Role(c)
	return r == constants.RoleAdmin || r == constants.RoleSuperAdmin
}
