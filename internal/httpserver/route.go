package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	Auth          *AuthHTTP
	Catalog       *CatalogHTTP
	Cart          *CartHTTP
	Order         *OrderHTTP
	Address       *AddressHTTP
	User          *UserHTTP
	Content       *ContentHTTP
	GuestMessage  *GuestMessageHTTP
	Stats         *StatsHTTP
	JWTSecret     []byte
	Throttle      echo.MiddlewareFunc
	DB            *gorm.DB
	StorageDir    string
	StoragePrefix string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB != nil {
			sqlDB, err := d.DB.DB()
			if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.StorageDir != "" {
		e.Static(d.StoragePrefix, d.StorageDir)
	}

	authMW := middleware.New(d.JWTSecret)
	api := e.Group("/api")

	var throttled []echo.MiddlewareFunc
	if d.Throttle != nil {
		throttled = append(throttled, d.Throttle)
	}

	// public
	api.POST("/auth/register", d.Auth.Register, throttled...)
	api.POST("/auth/login", d.Auth.Login, throttled...)
	api.POST("/auth/logout", d.Auth.Logout)
	api.GET("/products", d.Catalog.GetProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)
	api.GET("/categories", d.Catalog.GetCategories)
	api.GET("/categories/:id", d.Catalog.GetCategory)
	api.GET("/contents", d.Content.GetContents)
	api.GET("/contents/:key", d.Content.GetContent)
	api.POST("/guest-messages", d.GuestMessage.StoreMessage, throttled...)

	// signed-in user
	private := api.Group("", authMW.RequireAuth)
	private.GET("/auth/me", d.Auth.Me)
	private.GET("/user/me", d.User.GetMe)
	private.PUT("/user/me", d.User.UpdateMe)

	private.GET("/carts", d.Cart.GetCart)
	private.POST("/carts", d.Cart.AddToCart)
	private.DELETE("/carts", d.Cart.ClearCart)
	private.GET("/carts/:id", d.Cart.GetCartItem)
	private.PUT("/carts/:id", d.Cart.UpdateCartItem)
	private.DELETE("/carts/:id", d.Cart.RemoveCartItem)

	private.GET("/orders", d.Order.GetOrders)
	private.POST("/orders", d.Order.StoreOrder)
	private.GET("/orders/:id", d.Order.GetOrder)
	private.PUT("/orders/:id", d.Order.UploadPaymentProof)
	private.POST("/orders/:id/payment-proof", d.Order.UploadPaymentProof)

	private.GET("/user_addresses", d.Address.GetAddresses)
	private.POST("/user_addresses", d.Address.CreateAddress)
	private.GET("/user_addresses/:id", d.Address.GetAddress)
	private.PUT("/user_addresses/:id", d.Address.UpdateAddress)
	private.PATCH("/user_addresses/:id", d.Address.SetDefaultAddress)
	private.DELETE("/user_addresses/:id", d.Address.DeleteAddress)

	// admin
	admin := api.Group("/admin", authMW.RequireAdmin, adminScope)
	admin.GET("/statistics", d.Stats.GetStatistics)
	for _, section := range []string{"overview", "dashboard", "users", "products", "orders", "revenue"} {
		admin.GET("/statistics/"+section, d.Stats.GetStatistics)
	}
	admin.GET("/statistics/guest-messages", d.GuestMessage.GetStats)

	admin.GET("/users", d.User.GetUsers)
	admin.POST("/users", d.User.CreateUser)
	admin.GET("/users/:id", d.User.GetUser)
	admin.PUT("/users/:id", d.User.UpdateUser)
	admin.DELETE("/users/:id", d.User.DeleteUser)

	admin.GET("/products", d.Catalog.GetProducts)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.GET("/products/:id", d.Catalog.GetProduct)
	admin.PUT("/products/:id", d.Catalog.UpdateProduct)
	admin.POST("/products/:id", d.Catalog.UpdateProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)

	admin.GET("/categories", d.Catalog.GetCategories)
	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.GET("/categories/:id", d.Catalog.GetCategory)
	admin.PUT("/categories/:id", d.Catalog.UpdateCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)

	admin.GET("/carts", d.Cart.GetCarts)
	admin.GET("/carts/:id", d.Cart.GetCartItem)

	admin.GET("/orders", d.Order.GetOrders)
	admin.POST("/orders", d.Order.StoreOrder)
	admin.GET("/orders/:id", d.Order.GetOrder)
	admin.PUT("/orders/:id", d.Order.UpdateOrder)
	admin.POST("/orders/:id", d.Order.UpdateOrder)
	admin.DELETE("/orders/:id", d.Order.DeleteOrder)

	admin.GET("/order-details", d.Order.GetOrderDetails)
	admin.GET("/order-details/:id", d.Order.GetOrderDetail)

	admin.GET("/user-addresses", d.Address.GetAddresses)
	admin.POST("/user-addresses", d.Address.CreateAddress)
	admin.GET("/user-addresses/:id", d.Address.GetAddress)
	admin.PUT("/user-addresses/:id", d.Address.UpdateAddress)
	admin.PATCH("/user-addresses/:id", d.Address.SetDefaultAddress)
	admin.DELETE("/user-addresses/:id", d.Address.DeleteAddress)

	admin.GET("/guest-messages", d.GuestMessage.GetMessages)
	admin.GET("/guest-messages/stats", d.GuestMessage.GetStats)
	admin.GET("/guest-messages/:id", d.GuestMessage.GetMessage)
	admin.PATCH("/guest-messages/:id", d.GuestMessage.MarkRead)
	admin.DELETE("/guest-messages/:id", d.GuestMessage.DeleteMessage)

	admin.GET("/contents", d.Content.GetContents)
	admin.PUT("/contents", d.Content.SaveContents)
	admin.PUT("/contents/:key", d.Content.SaveContent)
}
