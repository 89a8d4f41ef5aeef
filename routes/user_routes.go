package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/controllers"
)

// initUserRoutes initializes the account routes
func initUserRoutes(r *gin.RouterGroup, g groups) {
	r.POST("/login", g.limited, controllers.Login)
	r.GET("", controllers.GetUsers)
	r.PUT("/change-password", g.auth, controllers.ChangePassword)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/register", controllers.RegisterUser)
		admin.GET("/:id", controllers.GetUserByID)
		admin.DELETE("/delete/:id", controllers.DeleteUser)
	}
}

// initClientRoutes initializes the client routes
func initClientRoutes(r *gin.RouterGroup, g groups) {
	r.GET("", controllers.GetClients)
	r.GET("/:id", controllers.GetClientByID)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.POST("/createClient", controllers.CreateClient)
		admin.POST("/:id", controllers.UpdateClient)
		admin.PUT("/:id", controllers.UpdateClient)
		admin.GET("/:id/payments", controllers.GetClientPayments)
	}
}

// initPaymentRoutes initializes the payment routes
func initPaymentRoutes(r *gin.RouterGroup, g groups) {
	r.POST("/create-order", controllers.CreatePaymentOrder)
	r.POST("/verify", controllers.VerifyPayment)

	admin := r.Group("", g.adminOnly()...)
	{
		admin.GET("/list", controllers.ListPaymentOrders)
		admin.GET("/:id", controllers.GetPaymentOrder)
		admin.GET("/:id/receipt", controllers.DownloadPaymentReceipt)
	}
}
