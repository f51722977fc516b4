package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"wayfarer/cmd/fx/annotator_fx"
	"wayfarer/cmd/fx/controllers_fx"
	"wayfarer/cmd/fx/db_fx"
	"wayfarer/cmd/fx/geo_fx"
	"wayfarer/cmd/fx/planner_fx"
	"wayfarer/cmd/fx/poi_fx"
	"wayfarer/cmd/fx/weather_fx"
	"wayfarer/internal/api/controllers"
	"wayfarer/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		geo_fx.Module,
		poi_fx.Module,
		planner_fx.Module,
		annotator_fx.Module,
		weather_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	poisController *controllers.POIsController,
	authController *controllers.AuthController,
	healthController *controllers.HealthController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, planController, poisController, authController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	poisController *controllers.POIsController,
	authController *controllers.AuthController,
	healthController *controllers.HealthController) {

	r.GET("/health", healthController.Liveness)
	r.GET("/health/providers", healthController.Providers)

	plansGroup := r.Group("/plans")
	plansGroup.POST("", planController.CreatePlan)
	plansGroup.POST("/freetext", planController.CreatePlanFromText)
	plansGroup.POST("/annotate", planController.AnnotatePlan)

	poisGroup := r.Group("/pois")
	poisGroup.GET("/search", poisController.SearchPois)
	poisGroup.GET("/:id", poisController.GetPoiById)

	r.POST("/admin/token", authController.CreateAdminToken)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.POST("/pois", poisController.CreatePoi)
	adminGroup.POST("/pois/reindex", poisController.ReindexEmbeddings)
}
