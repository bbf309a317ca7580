package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings for the controller.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	ServerAddress  string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	// MQTTBrokerURL enables the MQTT bridge transport when set.
	MQTTBrokerURL string

	// BroadcastExclude lists screen ids opted out of push("all").
	BroadcastExclude []string

	// ScheduleTickSeconds is the evaluator period.
	ScheduleTickSeconds int

	// Media storage. StorageDriver is "local" or "spaces".
	StorageDriver   string
	UploadDir       string
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Load reads configuration from the environment, picking up a .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}

	tick := 60
	if raw := os.Getenv("SCHEDULE_TICK_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SCHEDULE_TICK_SECONDS must be a positive integer, got %q", raw)
		}
		tick = n
	}

	var exclude []string
	if raw := os.Getenv("BROADCAST_EXCLUDE"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
	}

	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = "local"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	return &Config{
		DatabaseURL:         dbURL,
		MigrationsPath:      migrations,
		ServerAddress:       addr,
		RedisAddress:        os.Getenv("REDIS_ADDRESS"),
		RedisUsername:       os.Getenv("REDIS_USERNAME"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:       os.Getenv("MQTT_BROKER_URL"),
		BroadcastExclude:    exclude,
		ScheduleTickSeconds: tick,
		StorageDriver:       driver,
		UploadDir:           uploadDir,
		SpacesEndpoint:      os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:        os.Getenv("SPACES_REGION"),
		SpacesBucket:        os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:        os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey:     os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey:     os.Getenv("SPACES_SECRET_KEY"),
	}, nil
}
