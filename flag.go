package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sat20-labs/mempool-recorder/catalog"
	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/config"
)

type CmdParams struct {
	Env      string
	DataDir  string
	Endpoint string
}

func ParseCmdParams() *CmdParams {
	init := flag.String("init", "", "generate config file in current dir")
	env := flag.String("env", "", "env config file, default ./.env")
	dataDir := flag.String("datadir", "", "output directory for snapshot files")
	endpoint := flag.String("endpoint", "", "bitcoin node url, ex: http://127.0.0.1:8332")
	last := flag.String("last", "", "print the last recorded tick of a catalog")
	help := flag.Bool("help", false, "show help.")
	flag.Parse()

	if *help {
		common.Log.Info("mempool recorder help:")
		common.Log.Info("Usage: 'mempool-recorder -init mainnet' or 'mempool-recorder -init testnet4'")
		common.Log.Info("Usage: 'mempool-recorder -env default.yaml'")
		common.Log.Info("Usage: 'mempool-recorder -datadir /var/mempool -endpoint http://127.0.0.1:8332'")
		common.Log.Info("Usage: 'mempool-recorder -last ./data/catalog'")
		common.Log.Info("Options:")
		common.Log.Info("  run service ->")
		common.Log.Info("    -init: init config file in current dir, default 'mainnet'")
		common.Log.Info("    -env: config file, default ./.env")
		common.Log.Info("    -datadir: snapshot output directory, overrides data_dir")
		common.Log.Info("    -endpoint: node url, overrides node.endpoint")
		common.Log.Info("  run tool ->")
		common.Log.Info("    -last: print the last recorded tick, ex: mempool-recorder -last ./data/catalog")
		os.Exit(0)
	}

	if *init != "" {
		err := generateDefaultCfg(*init)
		if err != nil {
			common.Log.Fatal(err)
		}
		os.Exit(0)
	}

	if *last != "" {
		err := printLastTick(*last)
		if err != nil {
			common.Log.Fatal(err)
		}
		os.Exit(0)
	}

	return &CmdParams{
		Env:      *env,
		DataDir:  *dataDir,
		Endpoint: *endpoint,
	}
}

func generateDefaultCfg(chain string) error {
	cfg := config.NewDefaultYamlConf(chain)
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfgPath, err := os.Getwd()
	if err != nil {
		return err
	}

	err = config.SaveYamlConf(cfg, filepath.Join(cfgPath, "default.yaml"))
	if err != nil {
		return err
	}
	return nil
}

func printLastTick(dbDir string) error {
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		return fmt.Errorf("catalog directory isn't exist: %v", dbDir)
	} else if err != nil {
		return err
	}

	db, err := catalog.OpenPebbleDB(dbDir)
	if err != nil {
		return err
	}
	c := catalog.New(db)
	defer c.Close()

	rec, err := c.Last()
	if err != nil {
		if catalog.IsNotFound(err) {
			common.Log.Info("catalog is empty")
			return nil
		}
		return err
	}
	common.Log.Infof("last tick: height %d, time %s, mode %s, removed %d, added %d, mempool_size %d, file %s",
		rec.Height, common.ConvertTimestampToISO8601(rec.Timestamp), rec.Mode, rec.Removed, rec.Added, rec.MempoolSize, rec.Path)
	return nil
}
