package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/cmd/providers"
	"github.com/Yolt-group/accounts-and-transactions-sub000/cmd/reconcile"
	"github.com/Yolt-group/accounts-and-transactions-sub000/cmd/root"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/config"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// Log level from the environment until the configuration is loaded
	logging.SetAllLogLevels(logLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(providers.Cmd)
}

// logLevelFromEnv reads TXRECON_LOG_LEVEL, falling back to info.
func logLevelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
