// Command catalog queries a video catalog service from the command line.
//
// Settings come from flags, CATALOG_* environment variables and a .env file
// in the working directory, e.g.
//
//	CATALOG_BASE_URL=https://catalog.example.com catalog channel UC_x5XG1OV2P6uZZ5FSM9Ttw
//	catalog --api-key $KEY search --q "go concurrency" --type video -o text
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("catalog")
		os.Exit(1)
	}
}
