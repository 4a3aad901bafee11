package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the root logger described by cfg. Terminal output is
// coloured when stderr is a terminal; a log file gets rotated by lumberjack.
// The returned closer is nil unless a log file was opened.
func setupLogging(cfg LogConfig) (io.Closer, error) {
	var (
		output   io.Writer = os.Stderr
		closer   io.Closer
		useColor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		output, closer, useColor = lj, lj, false
	} else if useColor {
		output = colorable.NewColorableStderr()
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = log.JSONHandler(output)
	} else {
		handler = log.NewTerminalHandler(output, useColor)
	}
	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(cfg.Verbosity))
	if cfg.Vmodule != "" {
		if err := glogger.Vmodule(cfg.Vmodule); err != nil {
			return nil, err
		}
	}
	log.SetDefault(log.NewLogger(glogger))
	return closer, nil
}
