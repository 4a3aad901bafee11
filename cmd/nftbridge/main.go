// nftbridge drives non-fungible collections that live inside an executor.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory of the native executor (empty keeps state in memory)",
	}
	remoteFlag = &cli.StringFlag{
		Name:  "remote",
		Usage: "Address of a remote executor served over gRPC",
	}
	selectorsFlag = &cli.StringFlag{
		Name:  "selectors",
		Usage: `Selector table spoken by the executor ("fixed" or "ink")`,
		Value: defaultConfig.Selectors,
	}
	refTimeFlag = &cli.Uint64Flag{
		Name:  "budget.reftime",
		Usage: "Reference time budget per call",
		Value: defaultConfig.Budget.RefTime,
	}
	proofSizeFlag = &cli.Uint64Flag{
		Name:  "budget.proofsize",
		Usage: "Proof size budget per call",
		Value: defaultConfig.Budget.ProofSize,
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: defaultConfig.Log.Verbosity,
	}
	vmoduleFlag = &cli.StringFlag{
		Name:  "log.vmodule",
		Usage: "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. core/*=5)",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stderr",
	}
	logJSONFlag = &cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format logs with JSON",
	}
	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "gRPC listen address",
		Value: defaultConfig.Serve.Listen,
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Account signing the call (0x-prefixed, 32 bytes)",
		Value: zeroAccount,
	}
)

const zeroAccount = "0x0000000000000000000000000000000000000000000000000000000000000000"

func newApp() *cli.App {
	app := &cli.App{
		Name:  "nftbridge",
		Usage: "mint, move and inspect executor-backed non-fungible items",
		Flags: []cli.Flag{
			configFileFlag,
			dataDirFlag,
			remoteFlag,
			selectorsFlag,
			refTimeFlag,
			proofSizeFlag,
			verbosityFlag,
			vmoduleFlag,
			logFileFlag,
			logJSONFlag,
		},
		Commands: []*cli.Command{
			deployCommand,
			fundCommand,
			ownerCommand,
			mintCommand,
			burnCommand,
			transferCommand,
			runCommand,
			serveCommand,
			{
				Name:   "dumpconfig",
				Usage:  "Show configuration values",
				Action: dumpConfig,
				Flags:  []cli.Flag{listenFlag},
			},
		},
	}
	var logCloser io.Closer
	app.Before = func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		logCloser, err = setupLogging(cfg.Log)
		return err
	}
	app.After = func(ctx *cli.Context) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
