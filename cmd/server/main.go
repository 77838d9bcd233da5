package main

import (
	"github.com/OFFIS-RIT/ifcfilter/internal/server"
	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "api",
	})
	logger.Init(consoleLogger)

	server.Init()
}
