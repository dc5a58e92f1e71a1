// cmd/inklet/main.go
package main

import (
	"flag"
	stlog "log"
	"os"

	"github.com/inklet/inklet/internal/app"
	"github.com/inklet/inklet/internal/config"
	"github.com/inklet/inklet/internal/logger"
)

var (
	logFilePath string
	logLevel    string
	configPath  string
	filePath    string
)

func main() {
	flag.StringVar(&logFilePath, "logfile", "", "Path to write log file (empty disables logging)")
	flag.StringVar(&logLevel, "loglevel", "", "Log level (debug, info, warn, error); overrides config")
	flag.StringVar(&configPath, "config", "", "Path to config file")
	// The file to edit is the first non-flag argument.
	flag.Parse()
	if flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		stlog.Printf("Warning: config load failed, using defaults: %v", err)
	}

	// Flags win over the config file.
	effectiveLogPath := logFilePath
	if effectiveLogPath == "" {
		effectiveLogPath = cfg.Logger.LogFilePath
	}
	effectiveLevel := logLevel
	if effectiveLevel == "" {
		effectiveLevel = cfg.Logger.LogLevel
	}

	if effectiveLogPath != "" {
		logFile, err := os.OpenFile(effectiveLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", effectiveLogPath, err)
		}
		defer logFile.Close()
		logger.Init(logger.ParseLevel(effectiveLevel), logFile)
	}

	logger.Infof("Starting %s...", config.AppName)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	inkletApp, err := app.NewApp(filePath, cfg)
	if err != nil {
		stlog.Printf("Error initializing application: %v", err)
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := inkletApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
