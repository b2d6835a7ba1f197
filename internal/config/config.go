package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env, Port, APIToken string
	CORSOrigins         []string
}
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

// ListCfg holds the paging defaults shared by the directory endpoints and
// the list controllers.
type ListCfg struct {
	DefaultLimit  int
	MaxLimit      int
	MaxPagesShown int
	FetchTimeout  time.Duration
}

type DrilldownCfg struct {
	MapPath string
}

type Cfg struct {
	App       AppCfg
	DB        DBCfg
	Redis     RedisCfg
	List      ListCfg
	Drilldown DrilldownCfg
}

// Load reads the API server configuration and exits when a required
// setting is missing.
func Load() Cfg {
	cfg := read()

	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	return cfg
}

// LoadClient reads the configuration used by command line clients. Nothing
// is required there: every value can be overridden by flags.
func LoadClient() Cfg {
	return read()
}

func read() Cfg {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_API_TOKEN", "")
	v.SetDefault("APP_CORS_ORIGINS", "*")
	v.SetDefault("LIST_DEFAULT_LIMIT", 10)
	v.SetDefault("LIST_MAX_LIMIT", 100)
	v.SetDefault("LIST_MAX_PAGES_SHOWN", 9)
	v.SetDefault("FETCH_TIMEOUT_SEC", 30)
	v.SetDefault("TZ", "UTC")

	if tz := v.GetString("TZ"); tz != "" {
		_ = os.Setenv("TZ", tz)
	}

	cfg := Cfg{
		App: AppCfg{
			Env:         v.GetString("APP_ENV"),
			Port:        v.GetString("APP_PORT"),
			APIToken:    strings.TrimSpace(v.GetString("APP_API_TOKEN")),
			CORSOrigins: splitList(v.GetString("APP_CORS_ORIGINS")),
		},
		DB:    DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		List: ListCfg{
			DefaultLimit:  v.GetInt("LIST_DEFAULT_LIMIT"),
			MaxLimit:      v.GetInt("LIST_MAX_LIMIT"),
			MaxPagesShown: v.GetInt("LIST_MAX_PAGES_SHOWN"),
			FetchTimeout:  time.Duration(v.GetInt("FETCH_TIMEOUT_SEC")) * time.Second,
		},
		Drilldown: DrilldownCfg{MapPath: v.GetString("DRILLDOWN_MAP_PATH")},
	}

	if cfg.List.MaxLimit <= 0 {
		cfg.List.MaxLimit = 100
	}
	if cfg.List.DefaultLimit <= 0 || cfg.List.DefaultLimit > cfg.List.MaxLimit {
		log.Warn().
			Int("default_limit", cfg.List.DefaultLimit).
			Int("max_limit", cfg.List.MaxLimit).
			Msg("LIST_DEFAULT_LIMIT out of range, using 10")
		cfg.List.DefaultLimit = min(10, cfg.List.MaxLimit)
	}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
