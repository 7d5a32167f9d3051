package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"gitee.com/czyczk/learnledger/internal/appinit"
	"gitee.com/czyczk/learnledger/internal/controller"
	"gitee.com/czyczk/learnledger/internal/global"
	"gitee.com/czyczk/learnledger/internal/metrics"
	"gitee.com/czyczk/learnledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var configPath, sdkConfigPath string

	// Functions to be used by the cli helper
	initFunc := getInitFunc(&configPath, &sdkConfigPath)
	serveFunc := getServeFunc(&configPath)

	app := &cli.App{
		Name:  "learnledger",
		Usage: "Tokenize learning resources and settle their purchases on a ledger",
		Commands: []*cli.Command{
			{
				Name:    "init",
				Aliases: []string{"i"},
				Usage:   "Deploy the ledger chaincode on a Fabric network",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "conf",
						Aliases:     []string{"c"},
						Value:       "config/init.yaml",
						EnvVars:     []string{"LL_CONF"},
						Destination: &configPath,
					},
					&cli.StringFlag{
						Name:        "sdkconf",
						Aliases:     []string{"s"},
						Value:       "config-network.yaml",
						EnvVars:     []string{"LL_SDK_CONF"},
						Destination: &sdkConfigPath,
					},
				},
				Action: initFunc,
			},
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start as server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "conf",
						Aliases:     []string{"c"},
						Value:       "config/server.yaml",
						EnvVars:     []string{"LL_CONF"},
						Destination: &configPath,
					},
				},
				Action: serveFunc,
			},
		},
	}

	// Run the cli helper
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func getInitFunc(configPath *string, sdkConfigPath *string) func(c *cli.Context) error {
	// The func for subcommand "init"
	initFunc := func(c *cli.Context) error {
		// Load init info from `init.yaml`
		initInfo, err := appinit.LoadInitInfo(*configPath)
		if err != nil {
			return err
		}

		// The SDK config in `init.yaml` takes precedence over the flag
		if initInfo.SDKConfigPath != "" {
			*sdkConfigPath = initInfo.SDKConfigPath
		}

		// Create a Fabric SDK instance
		if err = appinit.SetupSDK(*sdkConfigPath); err != nil {
			return err
		}

		defer global.SDKInstance.Close()

		// Init the app
		if err = appinit.InitApp(&initInfo); err != nil {
			return err
		}

		// Show the network config
		networkConfig, err := appinit.DescribeNetwork(global.SDKInstance)
		if err != nil {
			return err
		}
		fmt.Print(networkConfig)

		return nil
	}

	return initFunc
}

func getServeFunc(configPath *string) func(c *cli.Context) error {
	serveFunc := func(c *cli.Context) error {
		// Load serve info from `server.yaml`
		serverInfo, err := appinit.LoadServerInfo(*configPath)
		if err != nil {
			return err
		}

		if err = appinit.SetupLogger(serverInfo.LogLevel, serverInfo.ShowTimingLogs); err != nil {
			return err
		}

		// Load the keys of the platform account
		operator, err := appinit.LoadOperatorKeys(serverInfo.Operator)
		if err != nil {
			return err
		}

		// Connect to the ledger
		ledgerBCAO, closeLedger, err := appinit.NewLedgerBCAO(serverInfo.Ledger, operator, *serverInfo.Fees)
		if err != nil {
			return err
		}

		defer closeLedger()

		// Connect to the metadata database
		metadataStore, err := appinit.OpenMetadataStore(serverInfo.DB, serverInfo.GetCacheExpiration())
		if err != nil {
			return err
		}

		// Instantiate services
		serviceInfo := &service.Info{
			LedgerBCAO:    ledgerBCAO,
			MetadataStore: metadataStore,
			Operator:      operator,
			Params: &service.Params{
				ChunkSize: serverInfo.ChunkSize,
				Fees:      *serverInfo.Fees,
			},
		}

		resourceSvc := service.NewResourceService(serviceInfo)

		// Instantiate controllers
		pingPongController := &controller.PingPongController{
			LedgerBCAO:        ledgerBCAO,
			OperatorAccountID: operator.AccountID,
		}

		resourceController := &controller.ResourceController{
			GroupName:     "/resources",
			ResourceSvc:   resourceSvc,
			AccessSvc:     resourceSvc.Access,
			MaxUploadSize: serverInfo.MaxUploadSize,
		}

		paymentController := &controller.PaymentController{
			GroupName:   "/payments",
			PaymentSvc:  resourceSvc.Payments,
			ResourceSvc: resourceSvc,
		}

		tokenController := &controller.TokenController{
			GroupName: "/tokens",
			TokenSvc:  resourceSvc.Tokens,
		}

		adminController := &controller.AdminController{
			GroupName:   "/admin",
			ResourceSvc: resourceSvc,
		}

		// Register controller handlers
		router := gin.New()
		router.Use(gin.Recovery(), controller.RequestLogger(), controller.RequestTimeout(serverInfo.GetRequestTimeout()))
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
		apiv1Group := router.Group("/api/v1")
		if err = controller.RegisterAll(apiv1Group, pingPongController, resourceController, paymentController, tokenController, adminController); err != nil {
			return err
		}

		corsHandler := cors.New(cors.Options{
			AllowedOrigins: serverInfo.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Requester-ID", "X-Request-ID"},
			ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		})

		// Start the HTTP server
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%v", serverInfo.Port),
			Handler: corsHandler.Handler(router),
		}

		chanError := make(chan error, 1)
		go func() {
			log.Infof("HTTP 服务器正在监听端口 %v...", serverInfo.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				chanError <- errors.Wrap(err, "无法启动 HTTP 服务器")
			}
		}()

		// Listen Ctrl+C signals. On receiving a signal stops the app elegantly
		chanQuit := make(chan os.Signal, 1)
		signal.Notify(chanQuit, os.Interrupt)
		select {
		case err := <-chanError:
			return err
		case <-chanQuit:
			log.Infoln("收到 Ctrl+C 信号，正在退出程序...")

			// Stop the HTTP server elegantly
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Infoln("正在停止 HTTP 服务器...")
			if err := httpServer.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "无法正常停止 HTTP 服务器")
			}
		}

		return nil
	}

	return serveFunc
}
