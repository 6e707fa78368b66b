package main

import (
	"log"

	"localfood/internal/api"

	_ "localfood/docs"
)

// @title LocalFood API
// @version 1.0
// @description REST API местного продовольственного рынка: каталог товаров, корзина, заказы

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
