package main

import "github.com/yuqiannemo/WanderMind/internal/cli"

// @title						WanderMind API
// @version					1.0
// @description				Session-scoped itinerary planning backed by a generative model, with accounts and saved plans.
// @host						localhost:8000
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cli.Execute()
}
