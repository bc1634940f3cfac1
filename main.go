package main

import (
	"fmt"
	"log"
	"os"

	"vaccitrack-backend/config"
	"vaccitrack-backend/models"
	"vaccitrack-backend/routes"
	"vaccitrack-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Child{},
		&models.Vaccine{},
		&models.Schedule{},
		&models.Order{},
		&models.Payment{},
		&models.Reaction{},
		&models.Feedback{},
		&models.NotificationLog{},
	)

	seedAdmin()
}

// seedAdmin creates the initial administrator account on an empty
// database so the clinic can log in and create staff.
func seedAdmin() {
	var count int64
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping seed")
		return
	}

	admin := models.User{
		Username: "admin",
		Email:    email,
		Password: password, // Hashed in BeforeCreate hook
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		Enabled:  true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
