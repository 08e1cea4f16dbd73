package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/controllers"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Connect to MongoDB
	config.ConnectDB()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	registerRoutes(api)

	// Get port from environment (default to 8080)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		logrus.WithField("port", port).Info("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt (Ctrl+C)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("server forced to shutdown")
	}
	if err := config.Client.Disconnect(ctx); err != nil {
		logrus.WithError(err).Warn("error disconnecting MongoDB")
	}

	logrus.Info("server exited")
}

func registerRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("/register", controllers.Register)
		users.POST("/login", controllers.Login)
		users.POST("/logout", controllers.Logout)
		users.POST("/refresh-token", controllers.RefreshAccessToken)
		users.POST("/forgot-password", controllers.ForgotPassword)
		users.POST("/reset-password/:resetToken", controllers.ResetPassword)

		users.GET("/me", middleware.Auth(), controllers.GetCurrentUser)
		users.PUT("/me", middleware.Auth(), controllers.UpdateUserDetails)
		users.POST("/update-password", middleware.Auth(), controllers.UpdatePassword)
		users.GET("/:userId", middleware.Auth(), controllers.GetUserByID)
		users.GET("/:userId/attendance", middleware.Auth(), controllers.GetUserAttendance)
	}

	events := api.Group("/events", middleware.Auth())
	{
		events.GET("", controllers.ListEvents)
		events.GET("/:eventId", controllers.GetEvent)
		events.POST("", middleware.RequireAdmin(), controllers.CreateEvent)
		events.PUT("/:eventId", middleware.RequireAdmin(), controllers.UpdateEvent)
		events.DELETE("/:eventId", middleware.RequireAdmin(), controllers.DeleteEvent)

		events.POST("/:eventId/attendance/init", middleware.RequireAdmin(), controllers.InitializeAttendance)
		events.POST("/:eventId/attendance", middleware.RequireAdmin(), controllers.MarkAttendance)
		events.GET("/:eventId/attendance", controllers.GetEventAttendance)
		events.GET("/:eventId/attendance/:userId", controllers.GetAttendanceStatus)
	}

	attendance := api.Group("/attendance", middleware.Auth(), middleware.RequireAdmin())
	{
		attendance.PUT("/:attendanceId", controllers.UpdateAttendance)
		attendance.PUT("/:attendanceId/status", controllers.UpdateAttendanceStatus)
		attendance.DELETE("/:attendanceId", controllers.DeleteAttendance)
	}

	posts := api.Group("/posts", middleware.Auth())
	{
		posts.POST("", controllers.CreatePost)
		posts.GET("", controllers.ListApprovedPosts)
		posts.GET("/mine", controllers.ListMyPosts)
		posts.POST("/:postId/toggle-like", controllers.ToggleLike)
		posts.DELETE("/:postId", controllers.DeletePost)
	}

	notifications := api.Group("/notifications", middleware.Auth())
	{
		notifications.GET("", controllers.ListNotifications)
		notifications.PUT("/:notificationId/read", controllers.MarkNotificationRead)
		notifications.POST("", middleware.RequireAdmin(), controllers.CreateNotification)
	}

	admin := api.Group("/admin", middleware.Auth(), middleware.RequireAdmin())
	{
		admin.GET("/all-users", controllers.GetAllUsers)
		admin.GET("/all-active-users", controllers.GetAllActiveUsers)
		admin.GET("/user-profile/:userId", controllers.GetUserProfile)
		admin.GET("/pending-posts", controllers.GetPendingPosts)
		admin.PUT("/toggle-active-status/:userId", controllers.ToggleActiveStatus)
		admin.PUT("/update-user-password/:userId", controllers.AdminUpdateUserPassword)
		admin.PUT("/update-user-username/:userId", controllers.AdminUpdateUsername)
		admin.PUT("/approve-post/:postId", controllers.ApprovePost)
	}
}
