package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/controllers"
	"github.com/yeremiapane/cafe-order-app/middlewares"
	"github.com/yeremiapane/cafe-order-app/services"
)

func SetupRouter(db *gorm.DB, sweeper *services.SessionSweeper) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db, sweeper)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	inventoryCtrl := controllers.NewInventoryController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (tanpa auth, identitas = device cookie) --
	customer := r.Group("/")
	customer.Use(middlewares.TableDeviceContext())
	{
		// Scan QR meja, entry point seluruh alur customer
		customer.GET("/table/:token", sessionCtrl.ScanTable)
		customer.POST("/table/access-code", sessionCtrl.EnterAccessCode)

		// Menu publik
		customer.GET("/categories", categoryCtrl.GetAllCategories)
		customer.GET("/menus", menuCtrl.GetMenu)

		// Sesi meja
		customer.POST("/session/customer-type", sessionCtrl.SetCustomerType)
		customer.POST("/session/init-host", sessionCtrl.InitHost)
		customer.POST("/session/join-request", sessionCtrl.JoinRequest)
		customer.POST("/session/guest-action", sessionCtrl.GuestAction)
		customer.POST("/session/update-settings", sessionCtrl.UpdateSettings)
		customer.GET("/session/status", sessionCtrl.Status)
		customer.POST("/session/activity", sessionCtrl.UpdateActivity)
		customer.POST("/session/complete-payment", sessionCtrl.CompletePayment)
		customer.POST("/session/disconnect", sessionCtrl.Disconnect)

		// Shared cart
		customer.GET("/table-cart", cartCtrl.GetCart)
		customer.POST("/table-cart/add", cartCtrl.AddItem)
		customer.DELETE("/table-cart/:id", cartCtrl.RemoveItem)
		customer.POST("/table-cart/checkout", cartCtrl.Checkout)

		// Order milik device
		customer.GET("/my-orders", orderCtrl.MyOrders)
		customer.POST("/my-orders/:id/cancel", orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.Profile)
	auth.POST("/logout", userCtrl.Logout)

	// TABLES (staff/admin)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:id", tableCtrl.GetTable)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.PATCH("/tables/:id", tableCtrl.UpdateTable)
	auth.PATCH("/tables/:id/status", tableCtrl.SetTableStatus)
	auth.POST("/tables/:id/regenerate-qr", tableCtrl.RegenerateQR)
	auth.POST("/tables/:id/clear-session", sessionCtrl.ClearTableSession)
	auth.DELETE("/tables/:id", middlewares.RequireRoles("admin"), tableCtrl.DeleteTable)

	// SESSIONS (staff/admin)
	auth.GET("/sessions", sessionCtrl.ListActiveSessions)
	auth.POST("/sessions/sweep", sessionCtrl.SweepSessions)

	// MENU CATEGORIES (staff/admin)
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:id", categoryCtrl.DeleteCategory)

	// MENUS (staff/admin)
	auth.GET("/menus", menuCtrl.GetAllMenuItems)
	auth.GET("/menus/:id", menuCtrl.GetMenuItem)
	auth.POST("/menus", menuCtrl.CreateMenuItem)
	auth.PATCH("/menus/:id", menuCtrl.UpdateMenuItem)
	auth.PUT("/menus/:id/recipe", menuCtrl.SetRecipe)
	auth.DELETE("/menus/:id", menuCtrl.DeleteMenuItem)

	// ORDERS (staff/admin)
	auth.GET("/orders", orderCtrl.ListOrders)
	auth.GET("/orders/:id", orderCtrl.GetOrder)
	auth.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	auth.POST("/orders/:id/mark-paid", orderCtrl.MarkOrderPaid)

	// INVENTORY (staff/admin)
	auth.GET("/inventory", inventoryCtrl.GetAllItems)
	auth.GET("/inventory/:id", inventoryCtrl.GetItem)
	auth.POST("/inventory", inventoryCtrl.CreateItem)
	auth.PATCH("/inventory/:id", inventoryCtrl.UpdateItem)
	auth.POST("/inventory/:id/adjust", inventoryCtrl.AdjustStock)
	auth.DELETE("/inventory/:id", middlewares.RequireRoles("admin"), inventoryCtrl.DeleteItem)

	// DASHBOARD (staff/admin)
	auth.GET("/dashboard/stats", adminCtrl.DashboardStats)
	auth.GET("/notifications", adminCtrl.ListNotifications)
	auth.PATCH("/notifications/:id/read", adminCtrl.MarkNotificationRead)

	return r
}
