package internal

import (
	"medilens/internal/controllers"
	"medilens/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/analyze/text", http.HandlerFunc(apiController.AnalyzeText))
	routers.Post("/api/analyze/image", http.HandlerFunc(apiController.AnalyzeImage))
	routers.Get("/api/history", http.HandlerFunc(apiController.GetHistory))
	routers.Get("/api/history/{id}", http.HandlerFunc(apiController.GetResult))
	routers.Delete("/api/history/{id}", http.HandlerFunc(apiController.DeleteResult))
	routers.Get("/api/session", http.HandlerFunc(apiController.GetSession))
	routers.Post("/api/session/view", http.HandlerFunc(apiController.SetView))
	return routers
}
