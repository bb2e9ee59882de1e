package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Module = fx.Provide(NewConfig)

type IConfig interface {
	Get(key string) interface{}
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetInt(key string) int
	GetInt64(key string) int64
	GetString(key string) string
	GetStringSlice(key string) []string
	GetDuration(key string) time.Duration
	UnmarshalKey(key string, val interface{}) error
}

type config struct {
	cfg *viper.Viper
}

func NewConfig() IConfig {
	_ = godotenv.Load()

	return &config{cfg: newViper()}
}

func newViper() *viper.Viper {
	cfg := viper.New()
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	setDefaults(cfg)

	_ = cfg.BindEnv("server.port", "SERVICE_HTTP_PORT")
	_ = cfg.BindEnv("log.level", "LOG_LEVEL")
	_ = cfg.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = cfg.BindEnv("database.dns", "DATABASE_DNS")
	_ = cfg.BindEnv("database.migration", "DATABASE_MIGRATION")
	_ = cfg.BindEnv("database.host", "POSTGRES_HOST")
	_ = cfg.BindEnv("database.user", "POSTGRES_USER")
	_ = cfg.BindEnv("database.password", "POSTGRES_PASSWORD")
	_ = cfg.BindEnv("database.dbname", "POSTGRES_DATABASE")
	_ = cfg.BindEnv("database.port", "POSTGRES_PORT")
	_ = cfg.BindEnv("database.pool_max_conns", "POSTGRES_MAX_CONNECTION")
	_ = cfg.BindEnv("database.pool_max_conn_lifetime", "POSTGRES_POOL_MAX_CONN_LIFETIME")
	_ = cfg.BindEnv("migration.path", "MIGRATION_PATH")
	_ = cfg.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = cfg.BindEnv("redis.addrs", "REDIS_ADDRS")
	_ = cfg.BindEnv("redis.prefix", "REDIS_PREFIX")
	_ = cfg.BindEnv("mongo.enabled", "MONGO_ENABLED")
	_ = cfg.BindEnv("mongo.uri", "MONGO_URI")
	_ = cfg.BindEnv("mongo.database", "MONGO_DATABASE")
	_ = cfg.BindEnv("aws_access_key_id", "AWS_ACCESS_KEY_ID")
	_ = cfg.BindEnv("aws_secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = cfg.BindEnv("aws_region", "AWS_REGION")
	_ = cfg.BindEnv("aws_s3_bucket", "AWS_S3_BUCKET")
	_ = cfg.BindEnv("bot_token", "BOT_TOKEN")
	_ = cfg.BindEnv("admin_chat_id", "ADMIN_CHAT_ID")

	// one merchant block serves both signing and verification
	_ = cfg.BindEnv("vnpay.tmn_code", "VNP_TMN_CODE")
	_ = cfg.BindEnv("vnpay.hash_secret", "VNP_HASH_SECRET")
	_ = cfg.BindEnv("vnpay.url", "VNP_URL")
	_ = cfg.BindEnv("vnpay.return_url", "VNP_RETURN_URL")
	_ = cfg.BindEnv("vnpay.version", "VNP_VERSION")
	_ = cfg.BindEnv("vnpay.locale", "VNP_LOCALE")
	_ = cfg.BindEnv("vnpay.currency", "VNP_CURRENCY")
	_ = cfg.BindEnv("vnpay.order_type", "VNP_ORDER_TYPE")
	_ = cfg.BindEnv("vnpay.timezone", "VNP_TIMEZONE")
	_ = cfg.BindEnv("vnpay.exchange_rate", "EXCHANGE_RATE")
	_ = cfg.BindEnv("vnpay.pending_ttl", "VNP_PENDING_TTL")

	if addrs := os.Getenv("REDIS_ADDRS"); addrs != "" {
		cfg.Set("redis.addrs", strings.Split(addrs, ","))
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Set("cors.allowed_origins", strings.Split(origins, ","))
	}

	if cfg.GetString("database.dns") == "" {
		if dsn := BuildPostgresDSNFromViper(cfg); dsn != "" {
			cfg.Set("database.dns", dsn)
		}
	}
	if cfg.GetString("database.migration") == "" {
		if url := BuildPostgresURLFromViper(cfg); url != "" {
			cfg.Set("database.migration", url)
		}
	}

	return cfg
}

func setDefaults(cfg *viper.Viper) {
	cfg.SetDefault("server.port", ":8080")
	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	cfg.SetDefault("migration.path", "file://migrations")
	cfg.SetDefault("redis.addrs", []string{"127.0.0.1:6379"})
	cfg.SetDefault("redis.prefix", "estatehub")
	cfg.SetDefault("mongo.enabled", false)
	cfg.SetDefault("mongo.database", "estatehub")
	cfg.SetDefault("vnpay.url", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	cfg.SetDefault("vnpay.version", "2.1.0")
	cfg.SetDefault("vnpay.locale", "vn")
	cfg.SetDefault("vnpay.currency", "VND")
	cfg.SetDefault("vnpay.order_type", "other")
	cfg.SetDefault("vnpay.timezone", "Asia/Ho_Chi_Minh")
	cfg.SetDefault("vnpay.exchange_rate", 25000)
	cfg.SetDefault("vnpay.pending_ttl", 15*time.Minute)
}

func (c *config) Get(key string) interface{} {
	return c.cfg.Get(key)
}

func (c *config) GetBool(key string) bool {
	return c.cfg.GetBool(key)
}

func (c *config) GetFloat64(key string) float64 {
	return c.cfg.GetFloat64(key)
}

func (c *config) GetInt(key string) int {
	return c.cfg.GetInt(key)
}

func (c *config) GetInt64(key string) int64 {
	return c.cfg.GetInt64(key)
}

func (c *config) GetString(key string) string {
	return c.cfg.GetString(key)
}

func (c *config) GetStringSlice(key string) []string {
	return c.cfg.GetStringSlice(key)
}

func (c *config) GetDuration(key string) time.Duration {
	return c.cfg.GetDuration(key)
}

func (c *config) UnmarshalKey(key string, val interface{}) error {
	return c.cfg.UnmarshalKey(key, val)
}

func BuildPostgresDSNFromViper(v *viper.Viper) string {
	var (
		user     = v.GetString("database.user")
		password = v.GetString("database.password")
		dbname   = v.GetString("database.dbname")
		host     = v.GetString("database.host")
		port     = v.GetString("database.port")
	)

	poolMaxConns := v.GetInt("database.pool_max_conns")
	if poolMaxConns == 0 {
		poolMaxConns = 30
	}
	poolLifetime := v.GetString("database.pool_max_conn_lifetime")
	if poolLifetime == "" {
		poolLifetime = "1h30m"
	}

	if user == "" && host == "" && dbname == "" {
		return ""
	}

	parts := []string{}
	if user != "" {
		parts = append(parts, "user="+user)
	}
	if password != "" {
		parts = append(parts, "password="+password)
	}
	if dbname != "" {
		parts = append(parts, "dbname="+dbname)
	}
	if host != "" {
		parts = append(parts, "host="+host)
	}
	if port != "" {
		parts = append(parts, "port="+port)
	}
	parts = append(parts, fmt.Sprintf("pool_max_conns=%d", poolMaxConns))
	parts = append(parts, fmt.Sprintf("pool_max_conn_lifetime=%s", poolLifetime))

	return strings.Join(parts, " ")
}

func BuildPostgresURLFromViper(v *viper.Viper) string {
	var (
		user     = v.GetString("database.user")
		password = v.GetString("database.password")
		host     = v.GetString("database.host")
		port     = v.GetString("database.port")
		dbname   = v.GetString("database.dbname")
	)

	if user == "" || host == "" || dbname == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user,
		password,
		host,
		port,
		dbname,
	)
}
