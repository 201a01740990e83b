package main

import (
	"os"

	"github.com/sat20-labs/mempool-recorder/catalog"
	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/config"
	"github.com/sat20-labs/mempool-recorder/recorder"
	"github.com/sat20-labs/mempool-recorder/share/bitcoin_rpc"
	"github.com/sat20-labs/mempool-recorder/snapshot"
)

func init() {
	config.InitSigInt()
}

func main() {
	params := ParseCmdParams()

	yamlcfg, err := config.InitConfig(params.Env)
	if err != nil {
		common.Log.Fatal(err)
	}
	yamlcfg.Override(params.DataDir, params.Endpoint)
	if err := config.InitLog(yamlcfg); err != nil {
		common.Log.Fatal(err)
	}

	common.Log.Infof("Starting mempool recorder %s...", common.RECORDER_VERSION)
	exitCode := 0
	defer func() {
		config.ReleaseRes()
		common.Log.Info("shut down")
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	if err := run(yamlcfg); err != nil {
		common.Log.Error(err)
		exitCode = 1
	}
}

func run(conf *config.YamlConf) error {
	node, err := InitNode(conf)
	if err != nil {
		return err
	}
	config.RegistReleaseFunc(node.Close)

	writer, err := snapshot.NewParquetWriter(conf.Recorder.Compression, conf.Recorder.CompressionLevel)
	if err != nil {
		return err
	}

	tickCatalog, err := InitCatalog(conf)
	if err != nil {
		return err
	}

	scheduler := recorder.NewScheduler(conf.Recorder.IntervalSeconds, conf.Recorder.Poll())
	var rec *recorder.Recorder
	// 不能把nil *catalog.Catalog直接传给接口
	if tickCatalog != nil {
		rec = recorder.NewRecorder(conf.DataDir, node, writer, tickCatalog, scheduler)
	} else {
		rec = recorder.NewRecorder(conf.DataDir, node, writer, nil, scheduler)
	}

	stopChan := make(chan bool, 1)
	cb := func() {
		common.Log.Info("handle SIGINT for close recorder")
		stopChan <- true
	}
	config.RegistSigIntFunc(cb)
	common.Log.Info("recorder start...")
	err = rec.Run(stopChan)

	common.Log.Info("prepare to release resource...")
	return err
}

func InitNode(conf *config.YamlConf) (bitcoin_rpc.NodeClient, error) {
	return bitcoin_rpc.NewNodeClient(&bitcoin_rpc.Options{
		Backend:       conf.Node.Backend,
		Endpoint:      conf.Node.Endpoint,
		User:          conf.Node.User,
		Password:      conf.Node.Password,
		Timeout:       conf.Node.Timeout(),
		RetryAttempts: conf.Node.RetryAttempts,
		RetryDelay:    conf.Node.RetryDelay(),
	})
}

// InitCatalog returns nil when the catalog is disabled.
func InitCatalog(conf *config.YamlConf) (*catalog.Catalog, error) {
	if conf.Catalog.Disabled {
		return nil, nil
	}
	path := conf.CatalogPath()
	db, err := catalog.OpenPebbleDB(path)
	if err != nil {
		return nil, err
	}
	c := catalog.New(db)
	config.RegistReleaseFunc(func() {
		if err := c.Close(); err != nil {
			common.Log.Errorf("close catalog %s failed: %v", path, err)
		}
	})

	last, err := c.Last()
	switch {
	case err == nil:
		common.Log.Infof("catalog %s, last tick: height %d, ts %d, file %s", path, last.Height, last.Timestamp, last.Path)
	case catalog.IsNotFound(err):
		common.Log.Infof("catalog %s is empty", path)
	default:
		return nil, err
	}
	return c, nil
}
