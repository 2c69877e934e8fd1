package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configurations from environment variables, falling back to
// development defaults. The GIF provider table is read from the TOML file
// named by GIF_CONFIG_PATH when present.
func Load() Configs {
	cfg := Configs{
		Env: getEnv("ENV", "local"),
		Database: DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "lotus"),
			User:     getEnv("MYSQL_USER", "lotus"),
			Password: getEnv("MYSQL_PASSWORD", "lotus"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		ApiServer: APIServerConfigs{
			ServerConfigs: ServerConfigs{
				Host: getEnv("API_HOST", "localhost"),
				Port: getEnv("API_PORT", "8080"),
				Cert: getEnv("API_SERVER_CERT", ""),
				Key:  getEnv("API_SERVER_KEY", ""),
			},
			MaxLimit:     getEnvAsInt("API_MAX_LIMIT", 50),
			DefaultLimit: getEnvAsInt("API_DEFAULT_LIMIT", 10),
		},
		Proxy: ServerConfigs{
			Host: getEnv("PROXY_HOST", "localhost"),
			Port: getEnv("PROXY_PORT", "8081"),
		},
		Notification: NotificationConfigs{
			EngineRPCServer: RPCServerConfigs{
				ServerConfigs: ServerConfigs{
					Host: getEnv("NOTIFICATION_ENGINE_RPC_HOST", "localhost"),
					Port: getEnv("NOTIFICATION_ENGINE_RPC_PORT", "8087"),
				},
				RPCName:  "notification",
				Endpoint: getEnv("NOTIFICATION_ENGINE_RPC_ENDPOINT", "http://localhost:8087"),
			},
			EngineWSServer: ServerConfigs{
				Host: getEnv("NOTIFICATION_ENGINE_WS_HOST", "localhost"),
				Port: getEnv("NOTIFICATION_ENGINE_WS_PORT", "8088"),
			},
			ProxyServer: ServerConfigs{
				Host: getEnv("NOTIFICATION_PROXY_HOST", "localhost"),
				Port: getEnv("NOTIFICATION_PROXY_PORT", "8089"),
			},
		},
		Search: SearchServerConfigs{
			RPCServerConfigs: RPCServerConfigs{
				ServerConfigs: ServerConfigs{
					Host: getEnv("SEARCH_RPC_HOST", "localhost"),
					Port: getEnv("SEARCH_RPC_PORT", "8086"),
				},
				RPCName:  "search",
				Endpoint: getEnv("SEARCH_RPC_ENDPOINT", "http://localhost:8086"),
			},
			IndexDir: getEnv("SEARCH_INDEX_DIR", "searchindex"),
		},
		Prometheus: ServerConfigs{
			Host: getEnv("PROMETHEUS_HOST", "localhost"),
			Port: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Auth: AuthConfigs{
			TokenSecret:     getEnv("TOKEN_SECRET", "token_secret"),
			AccessTokenName: "lotus_token",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvAsDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
			RefreshToken: TokenConfigs{
				Name:       "refresh_token",
				Expiration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 14*24*time.Hour),
			},
			Google: OAuth2Config{
				Name:         "google",
				Issuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				IDField:      "email",
			},
		},
		Session: SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "auth_session",
		},
		Storage: S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", "http://localhost:9000"),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000"),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", "access_key"),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", "secret_key"),
			SSLDisabled:    getEnvAsBool("STORAGE_SSL_DISABLE", true),
			AvatarBucket:   getEnv("STORAGE_AVATAR_BUCKET", "avatars"),
		},
		File: FileConfigs{
			MaxMemory:       getEnvAsInt64("FILE_MAX_MEMORY", 2<<20),
			MaxSize:         getEnvAsInt64("FILE_MAX_SIZE", 2<<20),
			AvatarCropSizes: []int{56, 128, 256},
		},
		Redis: RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfigs{
			Addr:          getEnv("KAFKA_ADDR", "localhost:9092"),
			MessageTopic:  getEnv("KAFKA_MESSAGE_TOPIC", "lotus.messages"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "lotus.subscriber"),
		},
		ScyllaDB: ScyllaDBConfigs{
			Addr:     getEnv("SCYLLA_ADDR", "localhost:9042"),
			KeySpace: getEnv("SCYLLA_KEYSPACE", "lotus"),
		},
		Gif: GifConfigs{
			ConfigPath: getEnv("GIF_CONFIG_PATH", ""),
			CacheTTL:   getEnvAsDuration("GIF_CACHE_TTL", 10*time.Minute),
		},
		Mail: MailConfigs{
			Host:     getEnv("MAIL_HOST", "smtp.gmail.com"),
			Port:     getEnv("MAIL_PORT", "587"),
			Sender:   getEnv("MAIL_SENDER", "noreply@accounted.th3void.com"),
			Password: getEnv("MAIL_PASSWORD", ""),
		},
		Logger: LoggerConfigs{
			Level:      getEnvAsInt("LOG_LEVEL", 1),
			Filename:   getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
		Chat: ChatConfigs{
			MessagePageSize:  getEnvAsInt("CHAT_MESSAGE_PAGE_SIZE", 50),
			SendRefTTL:       getEnvAsDuration("CHAT_SEND_REF_TTL", 10*time.Minute),
			IdleTimeout:      getEnvAsDuration("CHAT_IDLE_TIMEOUT", 30*time.Minute),
			EncryptionPepper: getEnv("CHAT_ENCRYPTION_PEPPER", ""),
		},
		RateLimit: RateLimitConfigs{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	cfg.Gif.Primary = GifProviderConfigs{
		Name:    "giphy",
		Domains: []string{"https://api.giphy.com"},
		APIKey:  getEnv("GIPHY_API_KEY", ""),
	}
	cfg.Gif.Fallback = GifProviderConfigs{
		Name:    "tenor",
		Domains: []string{"https://tenor.googleapis.com"},
		APIKey:  getEnv("TENOR_API_KEY", ""),
	}

	if cfg.Gif.ConfigPath != "" {
		var fileProviders struct {
			Primary  GifProviderConfigs `toml:"primary"`
			Fallback GifProviderConfigs `toml:"fallback"`
		}
		if _, err := toml.DecodeFile(cfg.Gif.ConfigPath, &fileProviders); err == nil {
			if fileProviders.Primary.Name != "" {
				cfg.Gif.Primary = fileProviders.Primary
			}
			if fileProviders.Fallback.Name != "" {
				cfg.Gif.Fallback = fileProviders.Fallback
			}
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return def
}

func getEnvAsInt(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	return def
}

func getEnvAsInt64(key string, def int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}

	return def
}

func getEnvAsFloat(key string, def float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}

	return def
}

func getEnvAsBool(key string, def bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}

	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return def
}
