package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf = new(ClientConfig)

// ClientConfig Redis客户端配置
type ClientConfig struct {
	ServerAddress  string        `mapstructure:"server_address"`
	MaxConnections int           `mapstructure:"max_connections"`
	Charset        string        `mapstructure:"charset"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	DatabaseIndex  int           `mapstructure:"database_index"`
	LogConfig      *LogConfig    `mapstructure:"logger"`
}

// LogConfig ZapLogger配置
type LogConfig struct {
	Mode       string `mapstructure:"mode"`
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Default 不依赖配置文件的默认配置
func Default(serverAddress string) *ClientConfig {
	return &ClientConfig{
		ServerAddress:  serverAddress,
		MaxConnections: 10,
		Charset:        "UTF-8",
	}
}

func Init() error {
	viper.SetConfigFile("config.yaml")
	viper.SetDefault("max_connections", 10)
	viper.SetDefault("charset", "UTF-8")
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("ReadInConfig failed, err: %v", err))
	}
	if err := viper.Unmarshal(Conf); err != nil {
		panic(fmt.Errorf("unmarshal to Conf failed, err:%v", err))
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(in fsnotify.Event) {
		_ = viper.Unmarshal(Conf)
	})
	return err
}
