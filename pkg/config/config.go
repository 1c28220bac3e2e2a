package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string

	ServerPort int
	LogLevel   string

	Storage     string
	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	Seed bool

	CSRF bool
}

// Load reads the environment, falling back to an optional erp.yaml in the
// working directory or the file named by path.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "shop-erp")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE", "memory")
	v.SetDefault("ES_INDEX", "listings")
	v.SetDefault("SEED", false)
	v.SetDefault("CSRF_ENABLED", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("erp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		ServiceName: v.GetString("SERVICE_NAME"),

		ServerPort: v.GetInt("SERVER_PORT"),
		LogLevel:   v.GetString("LOG_LEVEL"),

		Storage:     strings.ToLower(v.GetString("STORAGE")),
		DatabaseURL: v.GetString("DATABASE_URL"),

		JWTAccessSecret:  []byte(v.GetString("JWT_SECRET")),
		JWTRefreshSecret: []byte(v.GetString("JWT_REFRESH_SECRET")),

		KafkaBrokers: CSV(v.GetString("KAFKA_BROKERS")),

		ESURL:      v.GetString("ES_URL"),
		ESUser:     v.GetString("ES_USER"),
		ESPassword: v.GetString("ES_PASSWORD"),
		ESIndex:    v.GetString("ES_INDEX"),

		Seed: v.GetBool("SEED"),

		CSRF: v.GetBool("CSRF_ENABLED"),
	}, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
