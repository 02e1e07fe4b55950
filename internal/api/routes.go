package api

import (
	"context"
	"net/http"

	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth         service.AuthService
	Client       service.ClientService
	Trainer      service.TrainerService
	Exercise     service.ExerciseService
	Routine      service.RoutineService
	Assignment   service.AssignmentService
	Progress     service.ProgressService
	Forum        service.ForumService
	Subscription service.SubscriptionService
	Admin        service.AdminService

	// Policy defaults to authz.DefaultPolicy.
	Policy authz.Policy
	// HealthCheck is probed by GET /health. Optional.
	HealthCheck func(ctx context.Context) error
}

func SetupRoutes(router *gin.Engine, svc Services) {
	policy := svc.Policy
	if policy == nil {
		policy = authz.DefaultPolicy()
	}
	allow := func(op authz.Operation) gin.HandlerFunc { return Authorize(policy, op, nil) }
	owned := func(op authz.Operation, resolve SubjectResolver) gin.HandlerFunc { return Authorize(policy, op, resolve) }

	authHandler := NewAuthHandler(svc.Auth)
	clientHandler := NewClientHandler(svc.Client, svc.Assignment)
	trainerHandler := NewTrainerHandler(svc.Trainer)
	exerciseHandler := NewExerciseHandler(svc.Exercise)
	routineHandler := NewRoutineHandler(svc.Routine, svc.Assignment)
	progressHandler := NewProgressHandler(svc.Progress)
	forumHandler := NewForumHandler(svc.Forum)
	subscriptionHandler := NewSubscriptionHandler(svc.Subscription)
	adminHandler := NewAdminHandler(svc.Admin, svc.Subscription)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", func(c *gin.Context) {
		if svc.HealthCheck != nil {
			if err := svc.HealthCheck(c.Request.Context()); err != nil {
				log.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register/client", authHandler.RegisterClient)
			authGroup.POST("/register/trainer", authHandler.RegisterTrainer)
			authGroup.POST("/login", authHandler.Login)
		}
		apiV1.GET("/subscriptions/plans", subscriptionHandler.ListPlans)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/auth/me", allow(authz.OpProfileRead), authHandler.Me)
		protected.POST("/auth/change-password", allow(authz.OpProfilePassword), authHandler.ChangePassword)

		// --- Clients ---
		clients := protected.Group("/clients")
		{
			clients.GET("", allow(authz.OpClientsList), clientHandler.ListClients)
			clients.GET("/:id", owned(authz.OpClientsRead, clientFromPath("id")), clientHandler.GetClient)
			clients.GET("/:id/assignments", owned(authz.OpClientsRead, clientFromPath("id")), clientHandler.GetClientAssignments)
			clients.PUT("/:id", owned(authz.OpClientsUpdate, clientFromPath("id")), clientHandler.UpdateClient)
			clients.PATCH("/:id", owned(authz.OpClientsUpdate, clientFromPath("id")), clientHandler.UpdateClient)
			clients.DELETE("/:id", allow(authz.OpClientsDelete), clientHandler.DeleteClient)
		}

		// --- Trainers ---
		trainers := protected.Group("/trainers")
		{
			trainers.GET("", allow(authz.OpTrainersRead), trainerHandler.ListTrainers)
			trainers.GET("/:id", allow(authz.OpTrainersRead), trainerHandler.GetTrainer)
			trainers.GET("/:id/stats", allow(authz.OpTrainersRead), trainerHandler.GetTrainerStats)
			trainers.PUT("/:id", owned(authz.OpTrainersUpdate, trainerFromPath("id")), trainerHandler.UpdateTrainer)
			trainers.GET("/:id/clients", owned(authz.OpTrainersClients, trainerFromPath("id")), trainerHandler.GetTrainerClients)
		}

		// --- Exercise library ---
		exercises := protected.Group("/exercises")
		{
			exercises.GET("", allow(authz.OpExercisesRead), exerciseHandler.ListExercises)
			exercises.GET("/muscle-groups", allow(authz.OpExercisesRead), exerciseHandler.ListMuscleGroups)
			exercises.GET("/:id", allow(authz.OpExercisesRead), exerciseHandler.GetExercise)
			exercises.POST("", allow(authz.OpExercisesWrite), exerciseHandler.CreateExercise)
			exercises.PUT("/:id", allow(authz.OpExercisesWrite), exerciseHandler.UpdateExercise)
			exercises.DELETE("/:id", allow(authz.OpExercisesWrite), exerciseHandler.DeleteExercise)
		}

		// --- Routines and assignments ---
		routineOwnerByID := routineOwner(svc.Routine, "id")
		entryOwner := routineEntryOwner(svc.Routine, "entryId")
		routines := protected.Group("/routines")
		{
			routines.GET("", allow(authz.OpRoutinesRead), routineHandler.ListRoutines)
			routines.GET("/mine", allow(authz.OpRoutinesMine), routineHandler.GetMyRoutine)
			routines.GET("/:id", allow(authz.OpRoutinesRead), routineHandler.GetRoutine)
			routines.POST("", allow(authz.OpRoutinesCreate), routineHandler.CreateRoutine)
			routines.PUT("/:id", owned(authz.OpRoutinesWrite, routineOwnerByID), routineHandler.UpdateRoutine)
			routines.DELETE("/:id", owned(authz.OpRoutinesWrite, routineOwnerByID), routineHandler.DeleteRoutine)
			routines.POST("/:id/exercises", owned(authz.OpRoutinesWrite, routineOwnerByID), routineHandler.AddRoutineExercise)
			routines.PUT("/exercises/:entryId", owned(authz.OpRoutinesWrite, entryOwner), routineHandler.UpdateRoutineExercise)
			routines.DELETE("/exercises/:entryId", owned(authz.OpRoutinesWrite, entryOwner), routineHandler.RemoveRoutineExercise)

			routines.POST("/:id/assign", owned(authz.OpAssignmentsAssign, routineOwnerByID), routineHandler.AssignRoutine)
			routines.DELETE("/assignments/:id", owned(authz.OpAssignmentsDeactivate, assignmentOwner(svc.Assignment, "id")), routineHandler.DeactivateAssignment)
		}

		// --- Progress ---
		recordOwner := progressOwner(svc.Progress, "id")
		progress := protected.Group("/progress")
		{
			progress.GET("/client/:clientId", owned(authz.OpProgressRead, clientFromPath("clientId")), progressHandler.ListClientProgress)
			progress.GET("/client/:clientId/stats", owned(authz.OpProgressRead, clientFromPath("clientId")), progressHandler.GetClientProgressStats)
			progress.POST("/client/:clientId", owned(authz.OpProgressWrite, clientFromPath("clientId")), progressHandler.CreateProgress)
			progress.POST("/client/:clientId/photos/upload-url", owned(authz.OpProgressWrite, clientFromPath("clientId")), progressHandler.RequestPhotoUploadURL)
			progress.GET("/:id", owned(authz.OpProgressRead, recordOwner), progressHandler.GetProgress)
			progress.PUT("/:id", owned(authz.OpProgressWrite, recordOwner), progressHandler.UpdateProgress)
			progress.DELETE("/:id", owned(authz.OpProgressWrite, recordOwner), progressHandler.DeleteProgress)
		}

		// --- Forum ---
		forum := protected.Group("/forum")
		{
			forum.GET("/posts", allow(authz.OpForumRead), forumHandler.ListPosts)
			forum.GET("/posts/:id", allow(authz.OpForumRead), forumHandler.GetPost)
			forum.POST("/posts", allow(authz.OpForumWrite), forumHandler.CreatePost)
			forum.POST("/posts/:id/comments", allow(authz.OpForumWrite), forumHandler.AddComment)
			forum.PUT("/posts/:id", owned(authz.OpForumModerate, postAuthor(svc.Forum, "id")), forumHandler.UpdatePost)
			forum.DELETE("/posts/:id", owned(authz.OpForumModerate, postAuthor(svc.Forum, "id")), forumHandler.DeletePost)
			forum.PUT("/comments/:id", owned(authz.OpForumModerate, commentAuthor(svc.Forum, "id")), forumHandler.UpdateComment)
			forum.DELETE("/comments/:id", owned(authz.OpForumModerate, commentAuthor(svc.Forum, "id")), forumHandler.DeleteComment)
		}

		// --- Subscriptions ---
		subscriptions := protected.Group("/subscriptions")
		{
			subscriptions.GET("/mine", allow(authz.OpSubscriptionsRead), subscriptionHandler.GetMySubscription)
			subscriptions.GET("/history", allow(authz.OpSubscriptionsRead), subscriptionHandler.GetHistory)
			subscriptions.POST("/purchase", allow(authz.OpSubscriptionsPurchase), subscriptionHandler.Purchase)
			subscriptions.POST("/cancel", allow(authz.OpSubscriptionsCancel), subscriptionHandler.Cancel)
		}

		// --- Admin ---
		admin := protected.Group("/admin")
		{
			admin.GET("/stats", allow(authz.OpAdminRead), adminHandler.GetStats)
			admin.GET("/users", allow(authz.OpAdminRead), adminHandler.ListUsers)
			admin.PATCH("/users/:id/toggle-active", allow(authz.OpAdminWrite), adminHandler.ToggleUserActive)
			admin.GET("/subscriptions/stats", allow(authz.OpAdminRead), adminHandler.GetSubscriptionStats)
			admin.POST("/subscriptions/sweep", allow(authz.OpSubscriptionsSweep), adminHandler.SweepExpired)
		}
	}
}
