package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// Locals keys para UserID y CompanyID en Fiber.
const (
	LocalCompanyID = "company_id"
	LocalUserID    = "user_id"
)

// TenantMiddleware extrae la identidad multi-tenant de los headers que inyecta
// el gateway (la autenticación vive fuera de este servicio) a c.Locals.
// Sin X-Company-ID la petición se rechaza.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.Get("X-Company-ID")
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "falta X-Company-ID"})
		}
		c.Locals(LocalCompanyID, companyID)
		c.Locals(LocalUserID, c.Get("X-User-ID"))
		return c.Next()
	}
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware).
func GetCompanyID(c *fiber.Ctx) string {
	v := c.Locals(LocalCompanyID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// GetUserID devuelve el UserID del contexto (después del middleware).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
