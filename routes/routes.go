package routes

import (
	"journal-workflow-api/controllers"
	"journal-workflow-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Workflow API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile/password", controllers.ChangePassword)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/activity", controllers.GetActivityLog)

				// Editorial decisions; legality is enforced by the
				// decision engine per submission state, access by the
				// journal-role guard.
				submissions.GET("/:id/decisions/available", controllers.GetAvailableDecisions)
				submissions.GET("/:id/decisions", controllers.GetDecisionHistory)
				submissions.POST("/:id/decisions", controllers.ApplyDecision)
				submissions.POST("/:id/recommendations", controllers.RecordRecommendation)

				// Review rounds
				submissions.GET("/:id/rounds", controllers.GetReviewRounds)
				submissions.POST("/:id/rounds", controllers.OpenRound)
			}

			// Round-scoped operations
			rounds := protected.Group("/rounds")
			{
				rounds.POST("/:round_id/close", controllers.CloseRound)
				rounds.POST("/:round_id/assignments", controllers.AssignReviewer)
			}

			// Reviewer workspace
			reviewer := protected.Group("/reviewer")
			{
				reviewer.GET("/assignments", controllers.GetReviewerAssignments)
				reviewer.POST("/assignments/:assignment_id/respond", controllers.RespondToAssignment)
				reviewer.POST("/assignments/:assignment_id/submit", controllers.SubmitReview)
			}
		}

	}

	// 404 for unknown paths
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
