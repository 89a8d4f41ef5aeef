package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/controllers"
)

func initTestimonialRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetTestimonials)
	r.GET("/:id", controllers.GetTestimonialByID)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/create", controllers.CreateTestimonial)
		admin.PUT("/:id", controllers.UpdateTestimonial)
		admin.DELETE("/deleteAll", controllers.DeleteAllTestimonials)
		admin.DELETE("/:id", controllers.DeleteTestimonial)
	}
}

func initStatsRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetStats)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/create", controllers.CreateStats)
		admin.PUT("/:id", controllers.UpdateStats)
	}
}

func initVisitorRoutes(r *gin.RouterGroup, _ groups) {
	r.POST("/add", controllers.AddVisitor)
	r.GET("/visitors", controllers.GetVisitors)
}

func initGeneralRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetGeneral)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/create", controllers.CreateGeneral)
		admin.POST("/:id", controllers.UpdateGeneral)
	}
}

func initContactRoutes(r *gin.RouterGroup, g groups) {
	r.POST("", g.limited, controllers.SubmitContact)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.GET("", controllers.GetContacts)
		admin.GET("/export", controllers.ExportContacts)
	}
}

func initMailRoutes(r *gin.RouterGroup, g groups) {
	r.POST("/send", g.limited, controllers.SendMail)
}
