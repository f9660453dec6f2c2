package routes

import (
	"tech-store/config"
	"tech-store/controllers"
	"tech-store/middleware"
	"tech-store/models"
	"tech-store/repositories"
	"tech-store/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	productRepo := repositories.NewProductRepository(config.DB, models.RedisClient)
	cartRepo := repositories.NewCartRepository(config.DB)
	orderRepo := repositories.NewOrderRepository(config.DB)
	paymentRepo := repositories.NewPaymentRepository(config.DB)
	addressRepo := repositories.NewAddressRepository(config.DB)
	userRepo := repositories.NewUserRepository(config.DB)

	var mailer services.Mailer
	if emailService, err := models.NewEmailService(); err == nil {
		mailer = emailService
	}

	authCtrl := controllers.NewAuthController(services.NewAuthService(userRepo))
	userCtrl := controllers.NewUserController(services.NewUserService(userRepo))
	productCtrl := controllers.NewProductController(services.NewProductService(productRepo))
	cartCtrl := controllers.NewCartController(services.NewCartService(productRepo, cartRepo))
	orderCtrl := controllers.NewOrderController(
		services.NewCheckoutService(productRepo, cartRepo, orderRepo, addressRepo, mailer),
		services.NewOrderService(orderRepo),
	)
	paymentCtrl := controllers.NewPaymentController(services.NewPaymentService(paymentRepo))
	addressCtrl := controllers.NewAddressController(addressRepo)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/categories", productCtrl.GetAllCategories)
	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)

	router.POST("/payment/vnpay-update", paymentCtrl.VNPayUpdate)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.PATCH("/auth/profile", authCtrl.UpdateProfile)

		auth.GET("/addresses", addressCtrl.ListAddresses)
		auth.POST("/addresses", addressCtrl.CreateAddress)

		auth.GET("/cart-items", cartCtrl.GetCart)
		auth.POST("/cart-items", cartCtrl.AddItem)
		auth.PUT("/cart-items/:id", cartCtrl.UpdateItem)
		auth.DELETE("/cart-items/:id", cartCtrl.RemoveItem)

		auth.POST("/order", orderCtrl.Checkout)
		auth.GET("/order/my-orders", orderCtrl.GetMyOrders)
		auth.GET("/order/:id", orderCtrl.GetOrderByID)
		auth.PUT("/order/:id/cancel", orderCtrl.CancelOrder)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/users/:id", userCtrl.GetUserByID)

		admin.POST("/products", productCtrl.CreateProduct)
		admin.PATCH("/products/:id", productCtrl.UpdateProduct)
		admin.DELETE("/products/:id", productCtrl.DeleteProduct)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:id", orderCtrl.GetOrderByID)
		admin.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	}
}
