package routes

import (
	"github.com/gorilla/mux"

	"boardshop/controllers"
	"boardshop/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, userController *controllers.UserController, boardController *controllers.BoardController, articleController *controllers.ArticleController, productController *controllers.ProductController) {
	// User routes
	router.HandleFunc("/users", userController.Register).Methods("POST")
	router.HandleFunc("/users/login", userController.Login).Methods("POST")
	router.HandleFunc("/users/extend", auth.Required(userController.Extend)).Methods("PATCH")
	router.HandleFunc("/users/logout", auth.Required(userController.Logout)).Methods("DELETE")
	router.HandleFunc("/users/profile", auth.Required(userController.Profile)).Methods("GET")
	router.HandleFunc("/users/profile", auth.Required(userController.UpdateProfile)).Methods("PATCH")
	router.HandleFunc("/users/cart", auth.Required(userController.EditCart)).Methods("PATCH")
	router.HandleFunc("/users/cart", auth.Required(userController.GetCart)).Methods("GET")

	// Board routes; /all before /{id} so it is matched first
	router.HandleFunc("/boards", auth.Admin(boardController.Create)).Methods("POST")
	router.HandleFunc("/boards", boardController.Get).Methods("GET")
	router.HandleFunc("/boards/all", auth.Admin(boardController.GetAll)).Methods("GET")
	router.HandleFunc("/boards/{id}", boardController.GetByID).Methods("GET")
	router.HandleFunc("/boards/{id}", auth.Admin(boardController.Edit)).Methods("PATCH")
	router.HandleFunc("/boards/{id}", auth.Admin(boardController.Remove)).Methods("DELETE")

	// Article routes
	router.HandleFunc("/articles", auth.Admin(articleController.Create)).Methods("POST")
	router.HandleFunc("/articles", articleController.Get).Methods("GET")
	router.HandleFunc("/articles/all", auth.Admin(articleController.GetAll)).Methods("GET")
	router.HandleFunc("/articles/{id}", articleController.GetByID).Methods("GET")
	router.HandleFunc("/articles/{id}", auth.Admin(articleController.Edit)).Methods("PATCH")
	router.HandleFunc("/articles/{id}", auth.Admin(articleController.Remove)).Methods("DELETE")

	// Product routes
	router.HandleFunc("/products", auth.Admin(productController.Create)).Methods("POST")
	router.HandleFunc("/products", productController.Get).Methods("GET")
	router.HandleFunc("/products/all", auth.Admin(productController.GetAll)).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetByID).Methods("GET")
	router.HandleFunc("/products/{id}", auth.Admin(productController.Edit)).Methods("PATCH")
	router.HandleFunc("/products/{id}", auth.Admin(productController.Remove)).Methods("DELETE")
}
