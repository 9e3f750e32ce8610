package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Etcd      EtcdConfig      `mapstructure:"etcd"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MongoDB   MongoDBConfig   `mapstructure:"mongodb"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Razorpay  RazorpayConfig  `mapstructure:"razorpay"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig is the gRPC listener and the name the service registers under.
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// GatewayConfig is the public HTTP listener.
type GatewayConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	SettingsTTL time.Duration `mapstructure:"settings_ttl"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

type MongoDBConfig struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	AuditCollection string `mapstructure:"audit_collection"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RazorpayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	BaseURL   string `mapstructure:"base_url"`
	Currency  string `mapstructure:"currency"`
}

// CheckoutConfig holds request timeouts and the settings used when the
// store settings document is missing a field.
type CheckoutConfig struct {
	CatalogTimeout        time.Duration `mapstructure:"catalog_timeout"`
	GatewayTimeout        time.Duration `mapstructure:"gateway_timeout"`
	FreeShippingThreshold int64         `mapstructure:"free_shipping_threshold"`
	ShippingCost          int64         `mapstructure:"shipping_cost"`
	GSTRate               float64       `mapstructure:"gst_rate"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

const envPrefix = "STOREFRONT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "storefront")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)

	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("etcd.endpoints", []string{})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.settings_ttl", 5*time.Minute)
	v.SetDefault("redis.lock_ttl", 30*time.Second)

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("mongodb.database", "storefront")
	v.SetDefault("mongodb.audit_collection", "audit_logs")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "order-events")

	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("razorpay.base_url", "https://api.razorpay.com")
	v.SetDefault("razorpay.currency", "INR")

	v.SetDefault("checkout.catalog_timeout", 5*time.Second)
	v.SetDefault("checkout.gateway_timeout", 10*time.Second)
	v.SetDefault("checkout.free_shipping_threshold", 25000)
	v.SetDefault("checkout.shipping_cost", 500)
	v.SetDefault("checkout.gst_rate", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// Load reads the YAML file at configPath and overlays STOREFRONT_* environment
// variables, e.g. STOREFRONT_RAZORPAY_KEY_SECRET.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return errors.New("razorpay key_id and key_secret are required")
	}
	if c.Checkout.GSTRate < 0 {
		return fmt.Errorf("checkout.gst_rate must not be negative, got %v", c.Checkout.GSTRate)
	}
	return nil
}

func (c *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
