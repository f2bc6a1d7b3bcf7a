package controllers

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	fileServices "surgicare-core/internal/modules/files/services"
	"surgicare-core/internal/modules/patients/dto"
	"surgicare-core/internal/modules/patients/services"
)

// AssessmentController - surface médecin : évaluation clinique du patient
type AssessmentController struct {
	patients *services.PatientService
	blobs    *fileServices.BlobStoreService
}

func NewAssessmentController(
	patients *services.PatientService,
	blobs *fileServices.BlobStoreService,
) *AssessmentController {
	return &AssessmentController{
		patients: patients,
		blobs:    blobs,
	}
}

// Attach - POST /api/v1/doctor/patients/:id/assessment
// Les prescriptions arrivent encodées inline ; elles sont déposées dans le
// blob store et remplacées par leur URL publique avant l'écriture du dossier.
func (c *AssessmentController) Attach(ctx *gin.Context) {
	var assessment dto.DoctorAssessment
	if err := ctx.ShouldBindJSON(&assessment); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Évaluation invalide",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	if assessment.Recommendation != dto.RecommendationMedication &&
		assessment.Recommendation != dto.RecommendationSurgery {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Recommandation invalide",
			"details": map[string]interface{}{
				"code": "INVALID_RECOMMENDATION",
			},
		})
		return
	}

	for i := range assessment.Prescriptions {
		artifact := &assessment.Prescriptions[i]
		if artifact.Content == "" {
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(artifact.Content)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Contenu de prescription illisible: %s", artifact.Filename),
				"details": map[string]interface{}{
					"code": "INVALID_ARTIFACT_CONTENT",
				},
			})
			return
		}

		stored, err := c.blobs.Upload(ctx.Request.Context(), artifact.Filename, artifact.MimeType, raw)
		if err != nil {
			// L'artefact fait partie du dossier clinique : l'échec bloque l'évaluation
			ctx.JSON(http.StatusBadGateway, gin.H{
				"error": "Dépôt de la prescription impossible",
				"details": map[string]interface{}{
					"code": "ARTIFACT_STORAGE_FAILED",
				},
			})
			return
		}

		artifact.ID = stored.ID
		artifact.URL = stored.PublicURL()
		artifact.UploadedAt = stored.UploadedAt
		artifact.Content = "" // le contenu ne voyage plus avec le dossier
	}

	if err := c.patients.AttachAssessment(ctx.Param("id"), assessment); err != nil {
		respondPatientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
