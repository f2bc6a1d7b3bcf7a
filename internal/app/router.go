package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/app/config"
	"surgicare-core/internal/infrastructure/database/postgres"
	"surgicare-core/internal/infrastructure/database/redis"
	"surgicare-core/internal/infrastructure/logger"
	authControllers "surgicare-core/internal/modules/auth/controllers"
	counselingControllers "surgicare-core/internal/modules/counseling/controllers"
	filesControllers "surgicare-core/internal/modules/files/controllers"
	patientControllers "surgicare-core/internal/modules/patients/controllers"
	staffControllers "surgicare-core/internal/modules/staff/controllers"
	staffDto "surgicare-core/internal/modules/staff/dto"
	syncControllers "surgicare-core/internal/modules/sync/controllers"
	authmw "surgicare-core/internal/shared/middleware/auth"
	securitymw "surgicare-core/internal/shared/middleware/security"
)

func NewRouter(
	cfg *config.Config,
	loggerMw *logger.LoggerMiddleware,
	corsHandler securitymw.CORSHandler,
	session *authmw.SessionMiddleware,
	authCtrl *authControllers.AuthController,
	staffCtrl *staffControllers.StaffController,
	patientCtrl *patientControllers.PatientController,
	assessmentCtrl *patientControllers.AssessmentController,
	counselingCtrl *counselingControllers.CounselingController,
	filesCtrl *filesControllers.FilesController,
	syncCtrl *syncControllers.SyncController,
	db *postgres.Client,
	redisClient *redis.Client,
) *gin.Engine {
	configureGinMode(cfg.Environment)

	r := gin.New()

	r.Use(loggerMw.GinLogger())
	r.Use(loggerMw.GinRecovery())
	r.Use(gin.HandlerFunc(corsHandler))

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"status": "healthy",
			},
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		checks := gin.H{"postgres": "ok", "redis": "ok"}
		status := http.StatusOK

		if err := db.HealthCheck(c.Request.Context()); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := redisClient.HealthCheck(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"success": status == http.StatusOK,
			"data":    checks,
		})
	})

	// API versioning
	apiV1 := r.Group("/api/v1")
	{
		// Auth group (public : pré-session par construction)
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authCtrl.Login)
			auth.POST("/verify-otp", authCtrl.VerifyOTP)
			auth.POST("/logout", authCtrl.Logout)
		}

		// Inscription du personnel (publique : nécessaire au premier démarrage,
		// avant qu'aucune session ne puisse exister)
		apiV1.POST("/staff/register", staffCtrl.Register)

		// Artefacts de prescription servis par URL publique (référencés inline
		// dans les tableaux de bord, sans en-tête Authorization)
		apiV1.GET("/files/:id", filesCtrl.Serve)

		// Flux websocket des événements de synchronisation (statuts uniquement)
		apiV1.GET("/sync/events", syncCtrl.Events)

		// Tout le reste exige une session active
		protected := apiV1.Group("", session.Handler())
		{
			protected.GET("/staff", staffCtrl.List)
			protected.POST("/files", filesCtrl.Upload)

			// Sync group
			sync := protected.Group("/sync")
			{
				sync.GET("/status", syncCtrl.Status)
				sync.POST("/refresh", syncCtrl.Refresh)
			}

			// Front-office group : lecture ouverte à tous les rôles,
			// écriture réservée à l'accueil
			frontOffice := protected.Group("/front-office")
			{
				frontOffice.GET("/patients", patientCtrl.List)
				frontOffice.GET("/patients/:id", patientCtrl.Detail)

				writes := frontOffice.Group("", session.RequireRole(staffDto.RoleFrontOffice))
				{
					writes.POST("/patients", patientCtrl.Create)
					writes.PUT("/patients/:id", patientCtrl.Update)
					writes.DELETE("/patients/:id", patientCtrl.Delete)
				}
			}

			// Doctor group
			doctor := protected.Group("/doctor", session.RequireRole(staffDto.RoleDoctor))
			{
				doctor.POST("/patients/:id/assessment", assessmentCtrl.Attach)
			}

			// Counseling group
			counseling := protected.Group("/counseling", session.RequireRole(staffDto.RoleCounselor))
			{
				counseling.GET("/queue", counselingCtrl.Queue)
				counseling.POST("/patients/:id/proposal", counselingCtrl.AttachProposal)
				counseling.PATCH("/patients/:id/status", counselingCtrl.UpdateStatus)
				counseling.POST("/patients/:id/strategy", counselingCtrl.GenerateStrategy)
			}
		}
	}

	return r
}

// configureGinMode configure le mode Gin selon l'environnement
func configureGinMode(environment string) {
	switch environment {
	case "docker":
		gin.SetMode(gin.ReleaseMode)
	case "development":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
