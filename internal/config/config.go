package config

import (
	"errors"
	"strings"
	"time"

	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Gateway      GatewayConfig      `mapstructure:"gateway"`
	Split        SplitConfig        `mapstructure:"split"`
	Provisioning ProvisioningConfig `mapstructure:"provisioning"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Checkout     CheckoutConfig     `mapstructure:"checkout"`
	Task         TaskConfig         `mapstructure:"task"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// GatewayConfig Razorpay credentials and endpoint
type GatewayConfig struct {
	KeyID     string        `mapstructure:"key_id"`
	KeySecret string        `mapstructure:"key_secret"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Configured reports whether both halves of the key pair are present.
func (g GatewayConfig) Configured() bool {
	return g.KeyID != "" && g.KeySecret != ""
}

// SplitConfig revenue split policy applied to every split order
type SplitConfig struct {
	CreatorPercentage int64 `mapstructure:"creator_percentage"`  // share of the order routed to the creator
	MinTransferAmount int64 `mapstructure:"min_transfer_amount"` // gateway floor, minor units
}

// ProvisioningConfig fixed values sent when creating linked accounts
type ProvisioningConfig struct {
	EmailDomain  string        `mapstructure:"email_domain"`
	DefaultPhone string        `mapstructure:"default_phone"`
	Category     string        `mapstructure:"category"`
	Subcategory  string        `mapstructure:"subcategory"`
	Address      AddressConfig `mapstructure:"address"`
}

type AddressConfig struct {
	Street1    string `mapstructure:"street1"`
	Street2    string `mapstructure:"street2"`
	City       string `mapstructure:"city"`
	State      string `mapstructure:"state"`
	PostalCode string `mapstructure:"postal_code"`
	Country    string `mapstructure:"country"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RedisConfig struct {
	Addr       string        `mapstructure:"addr"` // empty disables the account cache
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	AccountTTL time.Duration `mapstructure:"account_ttl"`
}

type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"` // empty disables event publishing
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

type CheckoutConfig struct {
	MaxConcurrentWrites int `mapstructure:"max_concurrent_writes"`
}

type TaskConfig struct {
	KYCRetryInterval int `mapstructure:"kyc_retry_interval"` // seconds, 0 disables
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // stdout, stderr, file
	File   string `mapstructure:"file"`   // used when output is file
}

// GetLevel implements logger.LogConfig
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput implements logger.LogConfig
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile implements logger.LogConfig
func (l LogConfig) GetFile() string {
	return l.File
}

// Validate rejects configurations the server cannot run with. Missing gateway
// keys are not fatal here: order creation reports them per request.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Split.CreatorPercentage < 0 || c.Split.CreatorPercentage > 100 {
		return errors.New("split.creator_percentage must be between 0 and 100")
	}
	if c.Split.MinTransferAmount < 0 {
		return errors.New("split.min_transfer_amount must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "creatorhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("gateway.key_id", "")
	v.SetDefault("gateway.key_secret", "")
	v.SetDefault("gateway.base_url", "https://api.razorpay.com")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("split.creator_percentage", 85)
	v.SetDefault("split.min_transfer_amount", 100)
	v.SetDefault("provisioning.email_domain", "noreply.creatorhub.app")
	v.SetDefault("provisioning.default_phone", "9000000000")
	v.SetDefault("provisioning.category", "education")
	v.SetDefault("provisioning.subcategory", "elearning")
	v.SetDefault("provisioning.address.street1", "123 Creator Street")
	v.SetDefault("provisioning.address.street2", "Floor 1")
	v.SetDefault("provisioning.address.city", "Mumbai")
	v.SetDefault("provisioning.address.state", "Maharashtra")
	v.SetDefault("provisioning.address.postal_code", "400001")
	v.SetDefault("provisioning.address.country", "IN")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.account_ttl", 5*time.Minute)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "creatorhub.")
	v.SetDefault("checkout.max_concurrent_writes", 8)
	v.SetDefault("task.kyc_retry_interval", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// Load reads config.yaml, .env and CREATORHUB_* environment variables, in
// increasing order of precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/creatorhub")

	setDefaults(v)

	v.SetEnvPrefix("creatorhub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Could not read config file: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &cfg
}
