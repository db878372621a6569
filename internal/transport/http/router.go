package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cse_motors/internal/handlers"
	"github.com/Skotchmaster/cse_motors/internal/middleware/auth"
	"github.com/Skotchmaster/cse_motors/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/cse_motors/internal/middleware/logging"
	"github.com/Skotchmaster/cse_motors/internal/validation"
	"github.com/Skotchmaster/cse_motors/internal/view"
)

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger

	Tokens     auth.Decoder
	CookieName string
	CSRF       csrf.Config

	AccountHandler   *handlers.AccountHandler
	InventoryHandler *handlers.InventoryHandler
	FavoriteHandler  *handlers.FavoriteHandler
	SearchHandler    *handlers.SearchHandler
}

// New builds the echo instance with the middleware stack and every route.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.Renderer = view.JSONRenderer{}
	e.HTTPErrorHandler = handlers.ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
		loggingmw.RequestLogger(d.Logger),
		csrf.Middleware(d.CSRF),
		auth.Identify(d.Tokens, d.CookieName),
	)

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		sqlDB, err := d.DB.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/", d.AccountHandler.Home)

	account := e.Group("/account")

	account.GET("", d.AccountHandler.Management, auth.RequireLogin)
	account.GET("/login", d.AccountHandler.LoginView)
	account.POST("/login", d.AccountHandler.Login)
	account.GET("/registration", d.AccountHandler.RegistrationView)
	account.POST("/registration", d.AccountHandler.Register)
	account.GET("/logout", d.AccountHandler.Logout)

	self := account.Group("", auth.RequireLogin)

	self.GET("/update/:accountId", d.AccountHandler.UpdateView)
	self.POST("/update", d.AccountHandler.UpdateProfile)
	self.POST("/update/password", d.AccountHandler.UpdatePassword)

	self.GET("/favorites", d.FavoriteHandler.List)
	self.POST("/favorites", d.FavoriteHandler.Add)
	self.POST("/favorites/remove", d.FavoriteHandler.Remove)

	inv := e.Group("/inv")

	inv.GET("/type/:classificationId", d.InventoryHandler.ByClassification)
	inv.GET("/detail/:inv_id", d.InventoryHandler.Detail)
	inv.GET("/search", d.SearchHandler.Search)

	admin := inv.Group("", auth.RequireElevated)

	admin.GET("", d.InventoryHandler.Management)
	admin.GET("/add-classification", d.InventoryHandler.AddClassificationView)
	admin.GET("/add-inventory", d.InventoryHandler.AddVehicleView)
	admin.POST("/classification", d.InventoryHandler.AddClassification)
	admin.POST("/inventory", d.InventoryHandler.AddVehicle)
	admin.POST("/update", d.InventoryHandler.UpdateVehicle)
	admin.POST("/delete", d.InventoryHandler.DeleteVehicle)
}
