package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/handlers"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/shoppercookie"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/metrics"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/cart"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/catalogview"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/checkout"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
)

// Catalog is what the pages need from the remote catalog client.
type Catalog interface {
	handlers.CategoryLister
	handlers.ProductGetter
}

// Deps is everything the router wires into handlers.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Navigation config.Navigation
	Debounce   time.Duration

	Catalog  Catalog
	Views    *catalogview.Registry
	Store    *selection.Store
	Cart     *cart.Service
	Checkout *checkout.Service
	Tracker  *notify.Tracker

	Shoppers *shoppercookie.Codec
	Flash    *flash.Codec
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger, "/healthz", "/metrics"))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.ErrorHandler(d.Logger))
	r.Use(middleware.Recovery(d.Logger))

	r.GET("/healthz", handlers.Health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	chrome := &handlers.Chrome{Nav: d.Navigation, Categories: d.Catalog, Logger: d.Logger}
	productsH := &handlers.ProductsHandler{
		Chrome:   chrome,
		Views:    d.Views,
		Products: d.Catalog,
		Debounce: d.Debounce,
		Logger:   d.Logger,
	}
	selectionH := &handlers.SelectionHandler{Cart: d.Cart, Store: d.Store, Flash: d.Flash, Logger: d.Logger}
	checkoutH := &handlers.CheckoutHandler{
		Chrome:   chrome,
		Checkout: d.Checkout,
		Tracker:  d.Tracker,
		Flash:    d.Flash,
		Logger:   d.Logger,
	}

	pages := r.Group("/")
	pages.Use(middleware.Shopper(d.Shoppers))
	pages.Use(middleware.Flash(d.Flash))
	pages.Use(middleware.HeaderContext(d.Store))

	pages.GET("/", productsH.Home)
	pages.GET("/products", productsH.List)
	pages.GET("/products/grid", productsH.Grid)
	pages.GET("/products/refine", productsH.Refine)
	pages.GET("/products/:id", productsH.Detail)

	for _, list := range []selection.List{selection.Cart, selection.Wishlist} {
		base := "/" + string(list)
		pages.GET(base, selectionH.Panel(list))
		pages.POST(base+"/items", selectionH.Add(list))
		pages.POST(base+"/items/:id/delete", selectionH.Remove(list))
	}
	pages.GET("/selection/counts", selectionH.Counts)
	pages.POST("/theme/toggle", selectionH.ToggleTheme)

	pages.GET("/checkout", checkoutH.Get)
	pages.POST("/checkout", checkoutH.Post)
	pages.GET("/checkout/notifications/:number", checkoutH.Notification)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 page not found")
	})
	return r
}
