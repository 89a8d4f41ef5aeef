package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/controllers"
)

// initListingRoutes initializes the listing routes
func initListingRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetVisibleListings)
	r.GET("/slug/:slug", controllers.GetListingBySlug)
	r.GET("/:id", controllers.GetListingByID)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.GET("/all", controllers.GetAllListings)
		admin.POST("/create", controllers.CreateListing)
		admin.PUT("/update/:id", controllers.UpdateListing)
		admin.DELETE("/delete/:id", controllers.DeleteListing)
	}
}

// initProjectRoutes initializes the project routes
func initProjectRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetProjects)
	r.GET("/search", controllers.SearchProjects)
	r.GET("/slug/:slug", controllers.GetProjectBySlug)
	r.GET("/:id", controllers.GetProjectByID)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/create", controllers.CreateProject)
		admin.PUT("/:id", controllers.UpdateProject)
		admin.DELETE("/:id", controllers.DeleteProject)
	}
}

// initServiceRoutes initializes the service routes
func initServiceRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetServices)
	r.GET("/slug/:slug", controllers.GetServiceBySlug)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/create", controllers.CreateService)
		admin.POST("/:id", controllers.UpdateService)
		admin.DELETE("/delete/:id", controllers.DeleteService)
		admin.DELETE("/deleteAll", controllers.DeleteAllServices)
	}
}
