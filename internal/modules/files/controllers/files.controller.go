package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/modules/files/services"
)

// Taille maximale d'un artefact de prescription (10 Mo)
const maxArtifactSize = 10 << 20

// FilesController - dépôt et service des artefacts de prescription
type FilesController struct {
	blobs *services.BlobStoreService
}

func NewFilesController(blobs *services.BlobStoreService) *FilesController {
	return &FilesController{blobs: blobs}
}

// Upload - POST /api/v1/files (multipart, champ "file")
func (c *FilesController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Fichier manquant (champ multipart 'file')",
			"details": map[string]interface{}{
				"code": "MISSING_FILE",
			},
		})
		return
	}

	if header.Size > maxArtifactSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Fichier trop volumineux (10 Mo maximum)",
			"details": map[string]interface{}{
				"code": "FILE_TOO_LARGE",
			},
		})
		return
	}

	opened, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Fichier illisible",
			"details": map[string]interface{}{
				"code": "UNREADABLE_FILE",
			},
		})
		return
	}
	defer opened.Close()

	content, err := io.ReadAll(io.LimitReader(opened, maxArtifactSize))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Fichier illisible",
			"details": map[string]interface{}{
				"code": "UNREADABLE_FILE",
			},
		})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	stored, err := c.blobs.Upload(ctx.Request.Context(), header.Filename, mimeType, content)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": "Dépôt du fichier impossible",
			"details": map[string]interface{}{
				"code": "ARTIFACT_STORAGE_FAILED",
			},
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":          stored.ID,
			"filename":    stored.Filename,
			"mime_type":   stored.MimeType,
			"url":         stored.PublicURL(),
			"uploaded_at": stored.UploadedAt,
		},
	})
}

// Serve - GET /api/v1/files/:id
func (c *FilesController) Serve(ctx *gin.Context) {
	file, err := c.blobs.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": "Fichier introuvable",
			"details": map[string]interface{}{
				"code": "FILE_NOT_FOUND",
			},
		})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, file.MimeType, file.Content)
}
