package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		UsersPath   string
		ContentPath string
	}
	Session struct {
		Secret          string
		DurationMinutes int
		ActiveMinutes   int
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
	}
	AWS struct {
		Profile string
	}
	Templates struct {
		Glob      string
		StaticDir string
	}
}

// SessionDuration returns the absolute session lifetime.
func (c Config) SessionDuration() time.Duration {
	return time.Duration(c.Session.DurationMinutes) * time.Minute
}

// SessionExtension returns the sliding extension applied per request.
func (c Config) SessionExtension() time.Duration {
	return time.Duration(c.Session.ActiveMinutes) * time.Minute
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.userspath", "data/users.db")
	v.SetDefault("database.contentpath", "data/blog.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.durationminutes", 2)
	v.SetDefault("session.activeminutes", 1)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "blog-images")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("templates.glob", "web/templates/*.html")
	v.SetDefault("templates.staticdir", "web/static")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
