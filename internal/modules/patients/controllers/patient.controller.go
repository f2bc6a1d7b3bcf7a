package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	exportServices "surgicare-core/internal/modules/exports/services"
	"surgicare-core/internal/modules/patients/dto"
	"surgicare-core/internal/modules/patients/services"
)

// PatientController - surface front-office : admissions et dossiers
type PatientController struct {
	patients *services.PatientService
	exports  *exportServices.SpreadsheetExportService
}

func NewPatientController(
	patients *services.PatientService,
	exports *exportServices.SpreadsheetExportService,
) *PatientController {
	return &PatientController{
		patients: patients,
		exports:  exports,
	}
}

// List - GET /api/v1/front-office/patients
func (c *PatientController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    c.patients.List(),
	})
}

// Create - POST /api/v1/front-office/patients
func (c *PatientController) Create(ctx *gin.Context) {
	var req dto.CreatePatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Données d'admission invalides",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	patient, err := c.patients.Create(&req)
	if err != nil {
		respondPatientError(ctx, err)
		return
	}

	// Instantané vers le tableur externe (fire-and-forget)
	c.exports.Export(patient)

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    patient,
	})
}

// Detail - GET /api/v1/front-office/patients/:id
func (c *PatientController) Detail(ctx *gin.Context) {
	patient, found := c.patients.Find(ctx.Param("id"))
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": "Patient introuvable",
			"details": map[string]interface{}{
				"code": dto.ErrCodePatientNotFound,
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    patient,
	})
}

// Update - PUT /api/v1/front-office/patients/:id
func (c *PatientController) Update(ctx *gin.Context) {
	var patient dto.Patient
	if err := ctx.ShouldBindJSON(&patient); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Dossier patient invalide",
			"details": map[string]interface{}{
				"code":              "INVALID_REQUEST_FORMAT",
				"validation_errors": err.Error(),
			},
		})
		return
	}

	patient.ID = ctx.Param("id")
	if err := c.patients.Update(patient); err != nil {
		respondPatientError(ctx, err)
		return
	}

	c.exports.Export(patient)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    patient,
	})
}

// Delete - DELETE /api/v1/front-office/patients/:id
func (c *PatientController) Delete(ctx *gin.Context) {
	if err := c.patients.Delete(ctx.Param("id")); err != nil {
		respondPatientError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// respondPatientError mappe les erreurs typées du domaine vers HTTP
func respondPatientError(ctx *gin.Context, err error) {
	if patientErr, ok := err.(*dto.PatientError); ok {
		status := http.StatusBadRequest
		switch patientErr.Code {
		case dto.ErrCodePatientNotFound:
			status = http.StatusNotFound
		case dto.ErrCodeDuplicateRegistration:
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{
			"error": patientErr.Message,
			"details": map[string]interface{}{
				"code": patientErr.Code,
			},
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error": "Une erreur interne est survenue",
	})
}
