package routes

import (
	"os"
	"strings"

	"vaccitrack-backend/config"
	"vaccitrack-backend/controllers"
	"vaccitrack-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		return strings.Split(raw, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(utils.RateLimitMiddleware())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Catalogue browsing is open to guests.
	public := r.Group("/api/vaccines")
	{
		public.GET("", controllers.GetVaccines)
		public.GET("/:id", controllers.GetVaccine)
		public.GET("/suitable/:months", controllers.GetVaccinesForAge)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		staff := utils.RequireRoles("STAFF", "ADMIN")
		admin := utils.RequireRoles("ADMIN")

		// Child routes
		children := api.Group("/children")
		{
			children.POST("", controllers.CreateChild)
			children.GET("", controllers.GetChildren)
			children.GET("/:id", controllers.GetChild)
			children.PUT("/:id", controllers.UpdateChild)
			children.DELETE("/:id", controllers.DeleteChild)
		}

		// Vaccine catalogue management
		vaccines := api.Group("/vaccines")
		{
			vaccines.POST("", staff, controllers.CreateVaccine)
			vaccines.PUT("/:id", staff, controllers.UpdateVaccine)
			vaccines.DELETE("/:id", admin, controllers.DeleteVaccine)
		}

		// Schedule routes
		schedules := api.Group("/schedules")
		{
			schedules.POST("", controllers.CreateSchedule)
			schedules.GET("", controllers.GetSchedules)
			schedules.GET("/:id", controllers.GetSchedule)
			schedules.PUT("/:id", controllers.UpdateSchedule)
			schedules.DELETE("/:id", controllers.DeleteSchedule)
			schedules.GET("/child/:childId", controllers.GetSchedulesByChild)
			schedules.GET("/child/:childId/upcoming", controllers.GetUpcomingSchedulesByChild)
			schedules.GET("/vaccine/:vaccineId", staff, controllers.GetSchedulesByVaccine)
			schedules.PUT("/:id/status", staff, controllers.UpdateScheduleStatus)
			schedules.PUT("/:id/cancel", controllers.CancelSchedule)
			schedules.PUT("/:id/complete", staff, controllers.CompleteSchedule)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/discount", staff, controllers.ApplyOrderDiscount)
			orders.DELETE("/:id", admin, controllers.DeleteOrder)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", controllers.ProcessPayment)
			payments.GET("", admin, controllers.GetPayments)
			payments.GET("/:id", controllers.GetPayment)
			payments.GET("/order/:orderId", controllers.GetPaymentByOrder)
			payments.GET("/user/:userId", controllers.GetPaymentsByUser)
			payments.PUT("/:id/complete", staff, controllers.CompletePayment)
			payments.PUT("/:id/fail", staff, controllers.FailPayment)
			payments.PUT("/:id/refund", admin, controllers.RefundPayment)
			payments.GET("/revenue", staff, controllers.GetRevenue)
		}

		// Reaction routes
		reactions := api.Group("/reactions")
		{
			reactions.POST("", controllers.CreateReaction)
			reactions.GET("", controllers.GetReactions)
			reactions.GET("/:id", controllers.GetReaction)
			reactions.PUT("/:id", controllers.UpdateReaction)
			reactions.DELETE("/:id", controllers.DeleteReaction)
			reactions.GET("/severe/unresolved", staff, controllers.GetUnresolvedSevereReactions)
			reactions.PUT("/:id/resolve", staff, controllers.ResolveReaction)
		}

		// Feedback routes
		feedbacks := api.Group("/feedbacks")
		{
			feedbacks.POST("", controllers.CreateFeedback)
			feedbacks.GET("", controllers.GetFeedbacks)
			feedbacks.GET("/:id", controllers.GetFeedback)
			feedbacks.PUT("/:id/respond", staff, controllers.RespondToFeedback)
			feedbacks.DELETE("/:id", controllers.DeleteFeedback)
		}

		// Report routes
		reports := api.Group("/reports", staff)
		{
			reports.GET("/schedules", controllers.GetScheduleReport)
			reports.GET("/vaccines", controllers.GetVaccineReport)
			reports.GET("/revenue", controllers.GetRevenueReport)
			reports.GET("/customers", controllers.GetCustomerReport)
			reports.GET("/reactions", controllers.GetReactionReport)
			reports.GET("/comprehensive", controllers.GetComprehensiveReport)
		}

		// Dashboard routes
		api.GET("/dashboard", staff, controllers.GetDashboard)

		// User administration
		users := api.Group("/users", admin)
		{
			users.GET("", controllers.GetUsers)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id/enable", controllers.EnableUser)
			users.PUT("/:id/disable", controllers.DisableUser)
			users.PUT("/:id/role", controllers.UpdateUserRole)
		}
	}

	return r
}
