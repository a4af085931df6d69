package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/sabbir-ahmed/garage-server/internal/db"
	"github.com/sabbir-ahmed/garage-server/internal/handlers"
	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/middleware"
	"github.com/sabbir-ahmed/garage-server/internal/services"
	"github.com/sabbir-ahmed/garage-server/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017" // Default fallback
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "garage"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	database := db.Connect(mongoURI, dbName)
	imageStore := storage.Connect(
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
	)

	users := database.Collection("users")
	sellposts := database.Collection("sellpost")
	bookings := database.Collection("bookings")

	tokens := services.NewTokenService(jwtSecret, users)
	bookingSvc := services.NewBookingService(bookings)
	imageSvc := services.NewImageService(imageStore, sellposts)

	categoryHandler := handlers.NewCategoryHandler(database)
	sellPostHandler := handlers.NewSellPostHandler(database)
	userHandler := handlers.NewUserHandler(database)
	bookingHandler := handlers.NewBookingHandler(database, bookingSvc)
	tokenHandler := handlers.NewTokenHandler(tokens)
	imageHandler := handlers.NewImageHandler(imageSvc)

	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Use(logger.New())
	app.Use(cors.New())

	requireAuth := middleware.RequireAuth(tokens)
	requireSeller := middleware.RequireSeller(users)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("server is running")
	})

	app.Get("/category", categoryHandler.ListCategories)
	app.Get("/category/:id", categoryHandler.ListCategoryPosts)

	app.Get("/sellpost", sellPostHandler.ListAll)
	app.Post("/sellpost", sellPostHandler.Create)
	app.Get("/sellpost/:id", sellPostHandler.GetByID)
	app.Delete("/sellpost/:id", sellPostHandler.Delete)
	app.Get("/sellpost/:id/image", imageHandler.Presign)

	app.Get("/sellposts", requireAuth, requireSeller, sellPostHandler.ListByOwner)
	app.Get("/sellposts/images", requireAuth, requireSeller, imageHandler.BatchPresign)
	app.Post("/sellposts/:id/image", requireAuth, requireSeller, imageHandler.Upload)

	app.Get("/users", userHandler.ListAll)
	app.Get("/users/seller", userHandler.ListByRole("seller"))
	app.Get("/users/buyer", userHandler.ListByRole("buyer"))
	app.Post("/users", userHandler.Create)
	app.Get("/users/admin/:email", userHandler.IsAdmin)
	app.Get("/users/seller/:email", userHandler.IsSeller)
	app.Delete("/users/:id", userHandler.Delete)

	app.Get("/jwt", tokenHandler.Issue)

	app.Post("/bookings", bookingHandler.Create)
	app.Get("/bookings", bookingHandler.ListAll)
	app.Delete("/bookings/:id", requireAuth, bookingHandler.Delete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000" // Default port
	}

	log.Fatal(app.Listen(":" + port))
}
