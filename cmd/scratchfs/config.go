package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/weberc2/scratchfs/pkg/host"
	"github.com/weberc2/scratchfs/pkg/vdisk"
)

const (
	envVarPrefix = "SCRATCHFS"
	appName      = "scratchfs"
)

type Config struct {
	DiskDir      string     `envconfig:"DISK_DIR"      yaml:"diskDir"`
	HostDir      string     `envconfig:"HOST_DIR"      yaml:"hostDir"`
	HostBucket   string     `envconfig:"HOST_BUCKET"   yaml:"hostBucket"`
	HostPrefix   string     `envconfig:"HOST_PREFIX"   yaml:"hostPrefix"`
	Capacity     vdisk.Byte `envconfig:"CAPACITY"      yaml:"capacity"`
	RootPassword string     `envconfig:"ROOT_PASSWORD" yaml:"rootPassword"`
	LogLevel     string     `envconfig:"LOG_LEVEL"     yaml:"logLevel"`
	LogFormat    string     `envconfig:"LOG_FORMAT"    yaml:"logFormat"`
}

func DefaultConfig() Config {
	return Config{
		DiskDir:   ".",
		HostDir:   ".",
		Capacity:  vdisk.DefaultCapacity,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig starts from the defaults, applies the YAML config file if there
// is one and then the environment.
func LoadConfig() (*Config, error) {
	configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join(
			os.Getenv("HOME"),
			".config",
			appName+".yaml",
		)
	}

	c := DefaultConfig()
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.DiskDir == "" {
			return "diskDir", "DISK_DIR"
		}
		if c.HostDir == "" && c.HostBucket == "" {
			return "hostDir", "HOST_DIR"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required config: `%s` (env: `%s_%s`)",
			y,
			envVarPrefix,
			e,
		)
	}

	if c.Capacity < vdisk.DataOffset+vdisk.BlockSize {
		return fmt.Errorf(
			"validating config: capacity `%d` must be at least `%d`",
			c.Capacity,
			vdisk.DataOffset+vdisk.BlockSize,
		)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf(
			"validating config: log format must be `text` or `json`; "+
				"found `%s`",
			c.LogFormat,
		)
	}
	return nil
}

// Host returns the bucket when one is configured and the host directory
// otherwise.
func (c *Config) Host() (host.FileSystem, error) {
	if c.HostBucket == "" {
		return host.Dir(c.HostDir), nil
	}
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return &host.Bucket{
		Store:  &host.S3ObjectStore{Client: s3.New(sess)},
		Name:   c.HostBucket,
		Prefix: c.HostPrefix,
	}, nil
}

// Logger builds the process logger described by the config.
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}
