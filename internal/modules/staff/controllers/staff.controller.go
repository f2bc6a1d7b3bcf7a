package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/modules/staff/dto"
	"surgicare-core/internal/modules/staff/services"
)

// StaffController - annuaire du personnel
type StaffController struct {
	staff *services.StaffService
}

func NewStaffController(staff *services.StaffService) *StaffController {
	return &StaffController{staff: staff}
}

// List - GET /api/v1/staff
func (c *StaffController) List(ctx *gin.Context) {
	users := c.staff.List()

	// Le hash ne sort jamais de l'API
	sanitized := make([]gin.H, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"mobile":        user.Mobile,
			"role":          user.Role,
			"registered_at": user.RegisteredAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sanitized,
	})
}

// Register - POST /api/v1/staff/register
func (c *StaffController) Register(ctx *gin.Context) {
	var req dto.RegisterStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Inscription invalide",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	user, err := c.staff.Register(&req)
	if err != nil {
		if staffErr, ok := err.(*dto.StaffError); ok {
			status := http.StatusBadRequest
			if staffErr.Code == dto.ErrCodeDuplicateEmail {
				status = http.StatusConflict
			}
			ctx.JSON(status, gin.H{
				"error": staffErr.Message,
				"details": map[string]interface{}{
					"code": staffErr.Code,
				},
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Une erreur interne est survenue",
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
