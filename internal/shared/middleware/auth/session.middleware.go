package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authServices "surgicare-core/internal/modules/auth/services"
	staffDto "surgicare-core/internal/modules/staff/dto"
)

// SessionContext contient les informations de session injectées dans le contexte Gin
type SessionContext struct {
	UserID string             `json:"user_id"`
	Name   string             `json:"name"`
	Role   staffDto.StaffRole `json:"role"`
	Token  string             `json:"token"`
}

type SessionMiddleware struct {
	sessions *authServices.SessionService
}

// NewSessionMiddleware crée une nouvelle instance du middleware de session
func NewSessionMiddleware(sessions *authServices.SessionService) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Handler retourne le middleware Gin pour la validation de session
func (m *SessionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			m.respondError(c, http.StatusUnauthorized, "TOKEN_REQUIRED",
				"Token d'authentification requis", map[string]interface{}{
					"header_format": "Authorization: Bearer {token}",
				})
			return
		}

		session, err := m.sessions.Get(c.Request.Context(), token)
		if err != nil {
			m.respondError(c, http.StatusUnauthorized, "INVALID_TOKEN",
				"Session invalide ou expirée", nil)
			return
		}

		c.Set("session", SessionContext{
			UserID: session.UserID,
			Name:   session.Name,
			Role:   session.Role,
			Token:  token,
		})
		c.Set("user_id", session.UserID)
		c.Set("role", session.Role)

		c.Next()
	}
}

// RequireRole restreint une route aux rôles listés. S'empile après Handler().
func (m *SessionMiddleware) RequireRole(roles ...staffDto.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			m.respondError(c, http.StatusUnauthorized, "SESSION_CONTEXT_MISSING",
				"Contexte de session manquant", nil)
			return
		}

		role, ok := value.(staffDto.StaffRole)
		if !ok {
			m.respondError(c, http.StatusInternalServerError, "SESSION_CONTEXT_INVALID",
				"Contexte de session invalide", nil)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		m.respondError(c, http.StatusForbidden, "ROLE_FORBIDDEN",
			"Rôle insuffisant pour cette ressource", map[string]interface{}{
				"required_roles": roles,
			})
	}
}

// extractBearerToken extrait le token depuis le header Authorization
func (m *SessionMiddleware) extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}

// respondError envoie une réponse d'erreur standardisée
func (m *SessionMiddleware) respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	response := gin.H{
		"error": message,
		"details": gin.H{
			"code": code,
		},
	}

	if details != nil {
		if detailsMap, ok := response["details"].(gin.H); ok {
			for k, v := range details {
				detailsMap[k] = v
			}
		}
	}

	c.JSON(status, response)
	c.Abort()
}
