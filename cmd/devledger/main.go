package main

import (
	"fmt"
	"os"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao/restbcao"
	"gitee.com/czyczk/learnledger/internal/controller"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var filePath string

	app := &cli.App{
		Name:  "devledger",
		Usage: "Serve an in-process ledger over the relay protocol for development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "conf",
				Aliases:     []string{"c"},
				Value:       "config/devledger.yaml",
				EnvVars:     []string{"LL_DEVLEDGER_CONF"},
				Destination: &filePath,
			},
		},
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(filePath)
			if err != nil {
				return err
			}

			memoryLedger, err := newSeededLedger(conf)
			if err != nil {
				return err
			}

			router := gin.New()
			router.Use(gin.Recovery(), controller.RequestLogger())
			restbcao.NewRelayHandler(memoryLedger).Register(router.Group(conf.Prefix))

			log.Infof("Dev ledger with %v account(s) listening on port %v under '%v'.", len(conf.Accounts), conf.Port, conf.Prefix)
			return router.Run(fmt.Sprintf(":%v", conf.Port))
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
