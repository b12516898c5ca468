package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	Development    bool   `mapstructure:"development"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig tunes the hosted games. The defaults are the reference
// 10x20 board driven at 100ms per room tick.
type GameConfig struct {
	Cols          int           `mapstructure:"cols"`
	Rows          int           `mapstructure:"rows"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	MaxSpectators int           `mapstructure:"max_spectators"`
	RoomIdleLimit time.Duration `mapstructure:"room_idle_limit"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("game.cols", 10)
	viper.SetDefault("game.rows", 20)
	viper.SetDefault("game.tick_interval", 100*time.Millisecond)
	viper.SetDefault("game.max_spectators", 8)
	viper.SetDefault("game.room_idle_limit", 5*time.Minute)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
