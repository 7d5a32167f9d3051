package main

import (
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

func main() {
	var dirKeys, filePath string

	app := &cli.App{
		Name:  "sm2keygen",
		Usage: "Generate SM2 key pairs for the platform account and the ledger accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Value:       "sm2keys",
				Destination: &dirKeys,
			},
			&cli.StringFlag{
				Name:        "conf",
				Aliases:     []string{"c"},
				Value:       "cmd/sm2keygen/names.yaml",
				Destination: &filePath,
			},
		},
		Action: func(c *cli.Context) error {
			// Load the config, generate and save keys
			names, err := loadConfig(filePath)
			if err != nil {
				return err
			}

			return generateKeys(dirKeys, names)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func loadConfig(filePath string) ([]string, error) {
	fileBytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config file")
	}

	names := []string{}
	if err = yaml.Unmarshal(fileBytes, &names); err != nil {
		return nil, errors.Wrap(err, "cannot load config file")
	}

	if len(names) == 0 {
		return nil, errors.New("no names are specified")
	}

	return names, nil
}
