package main

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// setupLogger returns a logger writing to logFile. The terminal belongs to the
// UI, so without a file nothing is logged.
func setupLogger(logFile string, verbosity int) (logger logr.Logger, cleanup func(), err error) {
	if logFile == "" {
		return logr.Discard(), func() {}, nil
	}
	f, err := os.Create(logFile)
	if err != nil {
		return logr.Discard(), nil, err
	}
	stdr.SetVerbosity(verbosity)
	logger = stdr.New(log.New(f, "", log.LstdFlags|log.Lmicroseconds)).WithName("vtdemo")
	return logger, func() { f.Close() }, nil
}
