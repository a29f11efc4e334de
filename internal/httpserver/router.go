package httpserver

import (
	"github.com/labstack/echo/v4"

	"tienda/internal/auth"
)

type Deps struct {
	AuthMW          *auth.Middleware
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/categories", d.CategoryHandler.GetCategories)
	v1.GET("/categories/:id", d.CategoryHandler.GetCategory)
	v1.GET("/search", d.ProductHandler.Search)

	admin := v1.Group("/admin", d.AuthMW.AdminOnly)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	cartItems := v1.Group("/cart-items", d.AuthMW.RequireLogin)
	cartItems.GET("", d.CartHandler.GetCart)
	cartItems.POST("", d.CartHandler.AddItem)
	cartItems.PUT("/:id", d.CartHandler.UpdateItem)
	cartItems.DELETE("/:id", d.CartHandler.DeleteItem)
	cartItems.DELETE("", d.CartHandler.ClearCart)

	co := v1.Group("/checkout", d.AuthMW.RequireLogin)
	co.GET("/summary", d.CheckoutHandler.Summary)
	co.POST("", d.CheckoutHandler.Checkout)
}
