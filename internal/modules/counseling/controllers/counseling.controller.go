package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/modules/counseling/dto"
	"surgicare-core/internal/modules/counseling/services"
	patientDto "surgicare-core/internal/modules/patients/dto"
	patientServices "surgicare-core/internal/modules/patients/services"
)

// CounselingController - surface conseiller : file, propositions, workflow
type CounselingController struct {
	counseling *services.CounselingService
	strategy   *services.StrategyService
	patients   *patientServices.PatientService
}

func NewCounselingController(
	counseling *services.CounselingService,
	strategy *services.StrategyService,
	patients *patientServices.PatientService,
) *CounselingController {
	return &CounselingController{
		counseling: counseling,
		strategy:   strategy,
		patients:   patients,
	}
}

// Queue - GET /api/v1/counseling/queue
func (c *CounselingController) Queue(ctx *gin.Context) {
	queue := c.counseling.Queue()
	if queue == nil {
		queue = []patientDto.Patient{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
	})
}

// AttachProposal - POST /api/v1/counseling/patients/:id/proposal
func (c *CounselingController) AttachProposal(ctx *gin.Context) {
	var proposal patientDto.PackageProposal
	if err := ctx.ShouldBindJSON(&proposal); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Proposition de forfait invalide",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	if err := c.patients.AttachProposal(ctx.Param("id"), proposal); err != nil {
		respondCounselingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateStatus - PATCH /api/v1/counseling/patients/:id/status
func (c *CounselingController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Requête de changement de statut invalide",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	if err := c.counseling.UpdateStatus(ctx.Param("id"), &req); err != nil {
		respondCounselingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GenerateStrategy - POST /api/v1/counseling/patients/:id/strategy
// Toujours 200 : le générateur est meilleur effort, le fallback fait foi
func (c *CounselingController) GenerateStrategy(ctx *gin.Context) {
	patient, found := c.patients.Find(ctx.Param("id"))
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": "Patient introuvable",
			"details": map[string]interface{}{
				"code": patientDto.ErrCodePatientNotFound,
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"strategy": c.strategy.Generate(ctx.Request.Context(), patient),
		},
	})
}

func respondCounselingError(ctx *gin.Context, err error) {
	switch typed := err.(type) {
	case *dto.CounselingError:
		status := http.StatusConflict
		if typed.Code == dto.ErrCodeNoProposal {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{
			"error": typed.Message,
			"details": map[string]interface{}{
				"code": typed.Code,
			},
		})
	case *patientDto.PatientError:
		status := http.StatusBadRequest
		if typed.Code == patientDto.ErrCodePatientNotFound {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{
			"error": typed.Message,
			"details": map[string]interface{}{
				"code": typed.Code,
			},
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Une erreur interne est survenue",
		})
	}
}
