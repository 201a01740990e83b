package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/sat20-labs/mempool-recorder/common"
)

type YamlConf struct {
	Chain    string   `yaml:"chain"`
	DataDir  string   `yaml:"data_dir"`
	Node     Node     `yaml:"node"`
	Log      Log      `yaml:"log"`
	Recorder Recorder `yaml:"recorder"`
	Catalog  Catalog  `yaml:"catalog"`
}

type Node struct {
	Backend          string `yaml:"backend"`
	Endpoint         string `yaml:"endpoint"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	RetryAttempts    int    `yaml:"retry_attempts"`
	RetryDelayMillis int    `yaml:"retry_delay_millis"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type Recorder struct {
	IntervalSeconds  int    `yaml:"interval_seconds"`
	PollMillis       int    `yaml:"poll_millis"`
	Compression      string `yaml:"compression"`
	CompressionLevel int    `yaml:"compression_level"`
}

type Catalog struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

func (n *Node) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

func (n *Node) RetryDelay() time.Duration {
	return time.Duration(n.RetryDelayMillis) * time.Millisecond
}

func (r *Recorder) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

func (r *Recorder) Poll() time.Duration {
	return time.Duration(r.PollMillis) * time.Millisecond
}

func GetBaseDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "./."
	}
	return filepath.Dir(execPath)
}

// InitConfig loads the yaml config. A missing file is not an error, every
// setting has a default.
func InitConfig(configFile string) (*YamlConf, error) {
	if configFile == "" {
		configFile = "./.env"
	}
	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(GetBaseDir(), configFile)
	}

	fmt.Printf("config file: %s\n", configFile)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Printf("config file not found, using defaults\n")
		cfg := NewDefaultYamlConf(common.ChainMainnet)
		return cfg, cfg.Validate()
	}

	return LoadYamlConf(configFile)
}

func NewDefaultYamlConf(chain string) *YamlConf {
	ret := &YamlConf{Chain: chain}
	fillDefaults(ret)
	return ret
}

func LoadYamlConf(cfgPath string) (*YamlConf, error) {
	confFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cfg: %s, error: %s", cfgPath, err)
	}
	defer confFile.Close()

	ret := &YamlConf{}
	decoder := yaml.NewDecoder(confFile)
	err = decoder.Decode(ret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cfg: %s, error: %s", cfgPath, err)
	}

	fillDefaults(ret)
	if err := ret.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid cfg %s", cfgPath)
	}
	return ret, nil
}

func fillDefaults(ret *YamlConf) {
	if ret.Chain == "" {
		ret.Chain = common.ChainMainnet
	}

	_, err := logrus.ParseLevel(ret.Log.Level)
	if err != nil {
		ret.Log.Level = "info"
	}
	if ret.Log.Path == "" {
		ret.Log.Path = "log"
	}
	ret.Log.Path = filepath.FromSlash(ret.Log.Path)

	if ret.DataDir == "" {
		ret.DataDir = "data"
	}
	ret.DataDir = filepath.Clean(filepath.FromSlash(ret.DataDir))

	node := &ret.Node
	if node.Backend == "" {
		node.Backend = common.BACKEND_REST
	}
	if node.Endpoint == "" {
		port, ok := common.DefaultNodePort(ret.Chain)
		if !ok {
			port, _ = common.DefaultNodePort(common.ChainMainnet)
		}
		node.Endpoint = fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	node.Endpoint = strings.TrimRight(node.Endpoint, "/")
	if node.TimeoutSeconds <= 0 {
		node.TimeoutSeconds = 120
	}
	// 默认不重试，出错直接退出，由外部进程守护重启
	if node.RetryAttempts <= 0 {
		node.RetryAttempts = 1
	}
	if node.RetryDelayMillis <= 0 {
		node.RetryDelayMillis = 2000
	}

	rec := &ret.Recorder
	if rec.IntervalSeconds <= 0 {
		rec.IntervalSeconds = common.DEFAULT_TICK_INTERVAL
	}
	if rec.PollMillis <= 0 {
		rec.PollMillis = common.DEFAULT_POLL_MILLIS
	}
	if rec.Compression == "" {
		rec.Compression = "zstd"
	}
	rec.Compression = strings.ToLower(rec.Compression)
}

// Override applies command line values on top of the file.
func (c *YamlConf) Override(dataDir, endpoint string) {
	if dataDir != "" {
		c.DataDir = filepath.Clean(filepath.FromSlash(dataDir))
	}
	if endpoint != "" {
		c.Node.Endpoint = strings.TrimRight(endpoint, "/")
	}
}

func (c *YamlConf) CatalogPath() string {
	if c.Catalog.Path != "" {
		return filepath.FromSlash(c.Catalog.Path)
	}
	return filepath.Join(c.DataDir, "catalog")
}

func (c *YamlConf) Validate() error {
	if _, ok := common.DefaultNodePort(c.Chain); !ok {
		return fmt.Errorf("unsupported chain: %s", c.Chain)
	}
	switch c.Node.Backend {
	case common.BACKEND_REST, common.BACKEND_RPC:
	default:
		return fmt.Errorf("unsupported node backend: %s", c.Node.Backend)
	}
	if c.Recorder.IntervalSeconds <= 0 || c.Recorder.IntervalSeconds > 60 || 60%c.Recorder.IntervalSeconds != 0 {
		return fmt.Errorf("interval_seconds %d must divide 60", c.Recorder.IntervalSeconds)
	}
	switch c.Recorder.Compression {
	case "zstd", "snappy", "gzip", "brotli", "lz4", "none":
	default:
		return fmt.Errorf("unsupported compression: %s", c.Recorder.Compression)
	}
	return nil
}

func SaveYamlConf(config *YamlConf, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
