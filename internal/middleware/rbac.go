package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// ResolveRole looks up the caller's teacher or student profile once and
// stores the resulting service.Role for the handlers behind it.
func ResolveRole(resolver service.RoleResolver, logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "role_middleware").Logger()

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(uint)
		if userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		ctx := ContextWithCorrelation(c.UserContext(), GetCorrelationID(c))
		role, err := resolver.Resolve(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrUnknownRole) {
				return utils.SendError(c, fiber.StatusForbidden, "account has no teacher or student profile")
			}
			log.Error().Err(err).Uint("user_id", userID).Str("correlation_id", GetCorrelationID(c)).Msg("failed to resolve role")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve role")
		}

		c.Locals(LocalRole, role)
		if c.Locals(LocalUserRole) == nil {
			c.Locals(LocalUserRole, role.Kind())
		}
		return c.Next()
	}
}

// RoleFromContext returns the role stored by ResolveRole.
func RoleFromContext(c *fiber.Ctx) (service.Role, bool) {
	role, ok := c.Locals(LocalRole).(service.Role)
	return role, ok && role != nil
}

// RequireRole ensures that the authenticated user possesses one of the allowed
// roles, taken from the token claim or, failing that, the resolved profile.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals(LocalUserRole))
		if role == "" {
			if resolved, ok := RoleFromContext(c); ok {
				role = resolved.Kind()
			}
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
