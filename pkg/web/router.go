package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/core/notify/hub"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	activityView "github.com/scienceol/labmate/pkg/web/views/activity"
	calcView "github.com/scienceol/labmate/pkg/web/views/calculator"
	chatView "github.com/scienceol/labmate/pkg/web/views/chat"
	chemicalView "github.com/scienceol/labmate/pkg/web/views/chemical"
	experimentView "github.com/scienceol/labmate/pkg/web/views/experiment"
	"github.com/scienceol/labmate/pkg/web/views/health"
	"github.com/scienceol/labmate/pkg/web/views/login"
	reportView "github.com/scienceol/labmate/pkg/web/views/report"
	"github.com/scienceol/labmate/pkg/web/views/sse"
	userView "github.com/scienceol/labmate/pkg/web/views/user"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter installs every route. The returned func closes the chat sockets.
func NewRouter(ctx context.Context, g *gin.Engine) context.CancelFunc {
	installMiddleware(g)
	return installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowHeaders = append(corsConf.AllowHeaders, "Authorization")
	g.Use(cors.New(corsConf))
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(ctx context.Context, g *gin.Engine) context.CancelFunc {
	api := g.Group("/api")
	hc := health.NewHealthHandle()
	api.GET("/health", hc.Health)
	api.GET("/health/live", hc.Live)
	api.GET("/health/ready", hc.Ready)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	l := login.NewLogin()
	{
		authGroup := api.Group("/auth")
		authGroup.GET("/roles", l.Roles)
		authGroup.POST("/login", l.Login)
		authGroup.POST("/logout", auth.AuthWeb(), l.Logout)
	}

	chatHandle := chatView.NewChatHandle(ctx)

	v1 := api.Group("/v1", auth.AuthWeb())
	{
		u := userView.NewUserHandle()
		userRouter := v1.Group("/user")
		userRouter.GET("/me", l.Me)
		userRouter.GET("/dashboard", u.Dashboard)
		userRouter.GET("/list", auth.RequireLevel(common.LevelManager), u.List)
	}

	{
		c := chemicalView.NewChemicalHandle()
		chemRouter := v1.Group("/chemical")
		chemRouter.GET("/list", c.List)
		chemRouter.GET("/search", c.Search)
		chemRouter.POST("/calculate", c.Calculate)
		chemRouter.POST("/enhanced/calculate", c.EnhancedCalculate)
		chemRouter.POST("/enhanced/search", c.Search)
		chemRouter.POST("/enhanced/data", c.Data)
		chemRouter.POST("/properties/summary", c.PropertiesSummary)
		chemRouter.POST("/pubchem/fetch", c.PubChem)
		chemRouter.GET("/msds/search", c.MSDSSearch)
		chemRouter.POST("/msds/search", c.EnhancedMSDSSearch)
		chemRouter.GET("/history", c.History)
	}

	{
		c := calcView.NewCalculatorHandle()
		calcRouter := v1.Group("/calc")
		calcRouter.GET("/samples", c.Samples)
		basic := calcRouter.Group("", auth.RequireLevel(common.LevelBasic))
		basic.POST("/pitot", c.Pitot)
		basic.POST("/venturi", c.Venturi)
		basic.POST("/pump", c.Pump)
		industry := calcRouter.Group("", auth.RequireLevel(common.LevelIndustry))
		industry.POST("/water", c.Water)
		industry.POST("/oilgas", c.OilGas)
		calcRouter.POST("/pdf/download", c.DownloadPDF)
	}

	{
		e := experimentView.NewExperimentHandle()
		expRouter := v1.Group("/experiment")
		expRouter.POST("", e.Create)
		expRouter.GET("", e.List)
		expRouter.GET("/:uuid", e.Get)
		expRouter.DELETE("/:uuid", e.Delete)
	}

	{
		a := activityView.NewActivityHandle()
		v1.GET("/activity", a.List)
		v1.GET("/notify/sse", sse.NewSSEHandle(hub.Default()).Notify)
	}

	{
		chatRouter := v1.Group("/chat")
		chatRouter.POST("/send", chatHandle.Send)
		chatRouter.GET("/history", chatHandle.History)
		chatRouter.POST("/clear", chatHandle.Clear)
		v1.GET("/ws/chat", chatHandle.Connect)
	}

	{
		r := reportView.NewReportHandle()
		reportRouter := v1.Group("/report")
		reportRouter.GET("/calculations", r.Calculations)
		reportRouter.GET("/lab", r.Lab)
		reportRouter.GET("/experiment/current", r.CurrentExperiment)
		reportRouter.GET("/experiment/:uuid", r.Experiment)
		reportRouter.GET("/activity", r.ActivityLogs)
	}

	return func() {
		chatHandle.Close(ctx)
	}
}
