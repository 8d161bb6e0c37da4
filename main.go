// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"boardshop/controllers"
	"boardshop/middleware"
	"boardshop/routes"
	"boardshop/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	if err := utils.EnsureIndexes(client); err != nil {
		log.Fatal(err)
	}

	// Initialize controllers
	auth := middleware.NewAuth(client)
	userController := controllers.NewUserController(client, emailService)
	boardController := controllers.NewBoardController(client)
	articleController := controllers.NewArticleController(client)
	productController := controllers.NewProductController(client)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth, userController, boardController, articleController, productController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
