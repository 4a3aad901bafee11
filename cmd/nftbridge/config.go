package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type LogConfig struct {
	Verbosity int
	Vmodule   string
	File      string
	JSON      bool

	// Rotation of File, in megabytes / files / days.
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

type ServeConfig struct {
	Listen string
}

// Config is the nftbridge configuration file.
type Config struct {
	DataDir   string // empty keeps state in memory
	Remote    string // gRPC executor address; replaces the local store
	Selectors string // "fixed" or "ink"
	Budget    types.Weight
	Log       LogConfig
	Serve     ServeConfig
}

var defaultConfig = Config{
	Selectors: "fixed",
	Budget:    types.WeightFromParts(5_000_000_000, 1<<20),
	Log: LogConfig{
		Verbosity:  3,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
	},
	Serve: ServeConfig{Listen: "127.0.0.1:7878"},
}

func loadConfig(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig layers defaults, the config file and flags, in that order.
func makeConfig(ctx *cli.Context) (*Config, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(remoteFlag.Name) {
		cfg.Remote = ctx.String(remoteFlag.Name)
	}
	if ctx.IsSet(selectorsFlag.Name) {
		cfg.Selectors = ctx.String(selectorsFlag.Name)
	}
	if ctx.IsSet(refTimeFlag.Name) {
		cfg.Budget.RefTime = ctx.Uint64(refTimeFlag.Name)
	}
	if ctx.IsSet(proofSizeFlag.Name) {
		cfg.Budget.ProofSize = ctx.Uint64(proofSizeFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(vmoduleFlag.Name) {
		cfg.Log.Vmodule = ctx.String(vmoduleFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}
	if ctx.IsSet(logJSONFlag.Name) {
		cfg.Log.JSON = ctx.Bool(logJSONFlag.Name)
	}
	if ctx.IsSet(listenFlag.Name) {
		cfg.Serve.Listen = ctx.String(listenFlag.Name)
	}
	if _, err := codec.SelectorsByName(cfg.Selectors); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(ctx.App.Writer, string(out))
	return err
}
