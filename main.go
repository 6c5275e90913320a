package main

import (
	"context"
	"fmt"
	"nr1-risk-backend/config"
	apiv1 "nr1-risk-backend/controllers/v1"
	publicapi "nr1-risk-backend/controllers/v1/public"
	"nr1-risk-backend/db"
	"nr1-risk-backend/fiberlog"
	"nr1-risk-backend/initializers"
	"nr1-risk-backend/middleware"
	apimodels "nr1-risk-backend/models/api"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())
	if _, err := os.Stat(config.Conf.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: config.Conf.App.SwaggerFile,
		}))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, pingCancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer pingCancel()
		if err := db.PingDB(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("banco de dados indisponível"))
		}
		return c.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	})

	//api
	apiV1 := app.Group("/api/v1")
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST",
	}))
	if config.Conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	}

	//public
	public := apiV1.Group("/public", middleware.WithBodyLimit(int64(config.Conf.App.BodyLimit)))
	publicapi.InitPublicSurveyApiRouters(public)

	//space
	space := apiV1.Group("/space", middleware.AuthorizationRequired(), middleware.OrganizationRequired())
	apiv1.InitAnalyticsApiRouters(space)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("encerrando o serviço...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("erro ao encerrar o serviço")
		}
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("servidor HTTP encerrado")
}
