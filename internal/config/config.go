package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Kafka     KafkaConfig
	Assistant AssistantConfig
	Google    GoogleConfig
	SMTP      SMTPConfig
}

var (
	configInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerifyTokenTTL  time.Duration
	OTPExpiry       time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type GoogleConfig struct {
	UserInfoURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("LEARNSTACK_PORT", "8000")
		viper.SetDefault("LEARNSTACK_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("LEARNSTACK_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("LEARNSTACK_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("LEARNSTACK_JWT_SECRET", "secret")
		viper.SetDefault("LEARNSTACK_ACCESS_TOKEN_TTL", 240*time.Hour)
		viper.SetDefault("LEARNSTACK_REFRESH_TOKEN_TTL", 720*time.Hour)
		viper.SetDefault("LEARNSTACK_VERIFY_TOKEN_TTL", 10*time.Minute)
		viper.SetDefault("LEARNSTACK_OTP_EXPIRY", 10*time.Minute)
		viper.SetDefault("MYSQL_USER", "root")
		viper.SetDefault("MYSQL_PASSWORD", "password")
		viper.SetDefault("MYSQL_HOST", "localhost")
		viper.SetDefault("MYSQL_PORT", "3306")
		viper.SetDefault("MYSQL_DB", "learnstack")
		viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
		viper.SetDefault("REDIS_MAX_RETRIES", 3)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
		viper.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
		viper.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
		viper.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
		viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
		viper.SetDefault("MINIO_BUCKET", "learnstack")
		viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
		viper.SetDefault("KAFKA_TOPIC", "learnstack.activity")
		viper.SetDefault("OPENAI_MODEL", "gpt-4.1-mini")
		viper.SetDefault("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo")
		viper.SetDefault("SMTP_PORT", 587)
		viper.AutomaticEnv()

		configInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("LEARNSTACK_HOST"),
				Port:         viper.GetString("LEARNSTACK_PORT"),
				ReadTimeout:  viper.GetDuration("LEARNSTACK_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("LEARNSTACK_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("LEARNSTACK_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("MYSQL_HOST"),
				Port:     viper.GetString("MYSQL_PORT"),
				User:     viper.GetString("MYSQL_USER"),
				Password: viper.GetString("MYSQL_PASSWORD"),
				DBName:   viper.GetString("MYSQL_DB"),
			},
			Redis: RedisConfig{
				Addr:         viper.GetString("REDIS_ADDR"),
				Password:     viper.GetString("REDIS_PASSWORD"),
				DB:           viper.GetInt("REDIS_DB"),
				MaxRetries:   viper.GetInt("REDIS_MAX_RETRIES"),
				DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
				PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
				MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
			},
			JWT: JWTConfig{
				Secret:          viper.GetString("LEARNSTACK_JWT_SECRET"),
				AccessTokenTTL:  viper.GetDuration("LEARNSTACK_ACCESS_TOKEN_TTL"),
				RefreshTokenTTL: viper.GetDuration("LEARNSTACK_REFRESH_TOKEN_TTL"),
				VerifyTokenTTL:  viper.GetDuration("LEARNSTACK_VERIFY_TOKEN_TTL"),
				OTPExpiry:       viper.GetDuration("LEARNSTACK_OTP_EXPIRY"),
			},
			MinIO: MinIOConfig{
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
			},
			Kafka: KafkaConfig{
				Brokers: viper.GetStringSlice("KAFKA_BROKERS"),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			Assistant: AssistantConfig{
				APIKey:  viper.GetString("OPENAI_API_KEY"),
				BaseURL: viper.GetString("OPENAI_BASE_URL"),
				Model:   viper.GetString("OPENAI_MODEL"),
			},
			Google: GoogleConfig{
				UserInfoURL: viper.GetString("GOOGLE_USERINFO_URL"),
			},
			SMTP: SMTPConfig{
				Host:     viper.GetString("SMTP_HOST"),
				Port:     viper.GetInt("SMTP_PORT"),
				Username: viper.GetString("SMTP_USERNAME"),
				Password: viper.GetString("SMTP_PASSWORD"),
				From:     viper.GetString("SMTP_FROM"),
			},
		}
	})

	return configInstance, nil
}
