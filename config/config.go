package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database     DatabaseConfigs
	ApiServer    APIServerConfigs
	Proxy        ServerConfigs
	Notification NotificationConfigs
	Search       SearchServerConfigs
	Prometheus   ServerConfigs
	Auth         AuthConfigs
	Session      SessionConfigs
	Storage      S3Configs
	File         FileConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	ScyllaDB     ScyllaDBConfigs
	Gif          GifConfigs
	Mail         MailConfigs
	Logger       LoggerConfigs
	Chat         ChatConfigs
	RateLimit    RateLimitConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host     string
	Port     string
	Cert     string
	Key      string
	Endpoint string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs
	MaxLimit     int
	DefaultLimit int
	NeedApprove  bool
}

type NotificationConfigs struct {
	EngineRPCServer RPCServerConfigs
	EngineWSServer  ServerConfigs
	ProxyServer     ServerConfigs
}

type RPCServerConfigs struct {
	ServerConfigs
	RPCName  string
	Endpoint string
}

type SearchServerConfigs struct {
	RPCServerConfigs
	IndexDir string
}

type AuthConfigs struct {
	TokenSecret     string
	AccessTokenName string
	AccessToken     TokenConfigs
	RefreshToken    TokenConfigs

	Google OAuth2Config
}

type OAuth2Config struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	IDField      string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	SSLDisabled    bool
	AvatarBucket   string
}

type FileConfigs struct {
	MaxMemory       int64
	MaxSize         int64
	AvatarCropSizes []int
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr          string
	MessageTopic  string
	ConsumerGroup string
}

type ScyllaDBConfigs struct {
	Addr     string
	KeySpace string
}

// GifConfigs carries the two REST providers used by gif search. The provider
// table itself lives in a TOML file so keys can rotate without a rebuild; a
// missing primary key simply routes every search to the fallback.
type GifConfigs struct {
	ConfigPath string
	Primary    GifProviderConfigs
	Fallback   GifProviderConfigs
	CacheTTL   time.Duration
}

type GifProviderConfigs struct {
	Name      string   `toml:"name"`
	Domains   []string `toml:"domains"`
	APIKey    string   `toml:"api_key"`
	ClientKey string   `toml:"client_key"`
}

type MailConfigs struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

type LoggerConfigs struct {
	Level      int
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ChatConfigs struct {
	MessagePageSize  int
	SendRefTTL       time.Duration
	IdleTimeout      time.Duration
	EncryptionPepper string
}

type RateLimitConfigs struct {
	RequestsPerSecond float64
	Burst             int
}
