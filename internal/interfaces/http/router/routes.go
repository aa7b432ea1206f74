package router

import (
	"net/http"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/dto"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the API routes dispatch to
type Handlers struct {
	System  *handler.SystemHandler
	Catalog *handler.CatalogHandler
	Partner *handler.PartnerHandler
	Basket  *handler.BasketHandler
	Order   *handler.OrderHandler
	User    *handler.UserHandler
}

// RegisterAPI wires the retail API onto engine. The catalog is public; the
// rest runs behind auth.
func RegisterAPI(engine *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "Route not found", c.GetString("request_id")))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeMethodNotAllow, "Method not allowed", c.GetString("request_id")))
	})

	engine.GET("/health", h.System.Health)

	public := NewArea("")
	public.GET("/shops", h.Catalog.ListShops)
	public.GET("/categories", h.Catalog.ListCategories)
	public.GET("/products", h.Catalog.ListProducts)

	basket := NewArea("/basket", auth)
	basket.GET("", h.Basket.Get)
	basket.POST("", h.Basket.Add)
	basket.PUT("", h.Basket.Update)
	basket.DELETE("", h.Basket.Remove)

	order := NewArea("/order", auth)
	order.GET("", h.Order.List)
	order.POST("", h.Order.Place)

	user := NewArea("/user", auth)
	user.GET("/details", h.User.GetDetails)
	user.PUT("/details", h.User.UpdateDetails)
	user.GET("/contact", h.User.ListContacts)
	user.POST("/contact", h.User.CreateContact)
	user.PUT("/contact", h.User.UpdateContact)
	user.DELETE("/contact", h.User.DeleteContacts)

	partner := NewArea("/partner", auth)
	partner.POST("/update", h.Partner.Update)
	partner.GET("/state", h.Partner.GetState)
	partner.POST("/state", h.Partner.SetState)
	partner.GET("/orders", h.Partner.Orders)
	partner.PATCH("/orders/:id/state", h.Partner.ChangeOrderState)

	NewRouter(engine).Register(public, basket, order, user, partner).Setup()
}
