package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"tickethub/src/boot"
	"tickethub/src/common"
	"tickethub/src/config"
	"tickethub/src/lib"
	"tickethub/src/middlewares"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return time.Now().Before(datetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}
}

func setupRouter(gw lib.PaymentGateway, d *common.Dispatcher) *gin.Engine {
	router := gin.Default()

	// cors must be installed before any route is registered; gin freezes
	// each route's handler chain at registration time.
	if os.Getenv("API_ENV") == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{os.Getenv("APP_HOST")}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	publicEventHandlers(router.Group(apiPrefix))

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware())
	{
		bookingHandlers(authorized)
		paymentHandlers(authorized, gw, d)
	}

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		eventAdminHandlers(admin)
		adminHandlers(admin, d)
	}

	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	dispatcher := common.NewDispatcher(lib.NewSMTPMailer())
	boot.InitScheduler(dispatcher)

	gateway := &lib.StripeGateway{}

	registerValidators()

	router := setupRouter(gateway, dispatcher)

	if err := router.Run(":9090"); err != nil {
		log.Fatal(err)
	}
}
