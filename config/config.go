package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// Secret signs the HS256 access and refresh tokens
	Secret string `yaml:"secret" json:"secret"`
	// AccessTTL is the access token lifetime in minutes
	AccessTTL int `yaml:"access_ttl" json:"access_ttl"`
	// RefreshTTL is the refresh token lifetime in hours
	RefreshTTL int `yaml:"refresh_ttl" json:"refresh_ttl"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "catalogd",
			Location: "Asia/Shanghai",
			Workdir:  "/var/catalogd",
			Debug:    false,
		},
		Web: WebConfig{
			Host:       "0.0.0.0",
			Port:       1820,
			Secret:     "9b6de5cc-catalog-1820-b5d1-0800200c9a66",
			AccessTTL:  60,
			RefreshTTL: 24,
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "catalog",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  100,
			IdleConn: 10,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/catalogd/catalogd.log",
		},
	}
}

// LoadConfig reads the YAML config file when it exists and applies
// environment variable overrides on top.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err != nil {
				return nil, errors.Wrap(err, "read config file")
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config file %s", cfile)
			}
		}
	}
	applyEnvOverrides(cfg)
	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = filepath.Join(cfg.System.Workdir, "catalogd.log")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	setEnvString(&cfg.System.Workdir, "CATALOG_SYSTEM_WORKDIR")
	setEnvString(&cfg.System.Location, "CATALOG_SYSTEM_LOCATION")
	setEnvBool(&cfg.System.Debug, "CATALOG_SYSTEM_DEBUG")
	setEnvString(&cfg.Web.Host, "CATALOG_WEB_HOST")
	setEnvInt(&cfg.Web.Port, "CATALOG_WEB_PORT")
	setEnvString(&cfg.Web.Secret, "CATALOG_WEB_SECRET")
	setEnvInt(&cfg.Web.AccessTTL, "CATALOG_WEB_ACCESS_TTL")
	setEnvInt(&cfg.Web.RefreshTTL, "CATALOG_WEB_REFRESH_TTL")
	setEnvString(&cfg.Database.Type, "CATALOG_DB_TYPE")
	setEnvString(&cfg.Database.Host, "CATALOG_DB_HOST")
	setEnvInt(&cfg.Database.Port, "CATALOG_DB_PORT")
	setEnvString(&cfg.Database.Name, "CATALOG_DB_NAME")
	setEnvString(&cfg.Database.User, "CATALOG_DB_USER")
	setEnvString(&cfg.Database.Passwd, "CATALOG_DB_PASSWD")
	setEnvBool(&cfg.Database.Debug, "CATALOG_DB_DEBUG")
	setEnvString(&cfg.Logger.Mode, "CATALOG_LOGGER_MODE")
	setEnvBool(&cfg.Logger.FileEnable, "CATALOG_LOGGER_FILE_ENABLE")
	setEnvString(&cfg.Logger.Filename, "CATALOG_LOGGER_FILENAME")
}

func setEnvString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setEnvInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setEnvBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
