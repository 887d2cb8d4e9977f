// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Session         `yaml:"session"`
	RedisConnection `yaml:"redis_connection"`
	PasswordHashing `yaml:"password"`
	RabbitMQ        `yaml:"rabbitmq"`
	SeedUsers       []SeedUser `yaml:"seed_users"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Session структура для настройки сессий
type Session struct {
	CookieName   string        `yaml:"cookie_name" env-default:"session_id"`
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `yaml:"ttl" env-default:"24h"`
	Secure       bool          `yaml:"secure" env-default:"false"`
	StoreBackend string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	MemorySize   int           `yaml:"memory_size" env-default:"10000"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// PasswordHashing структура для настройки хэширования паролей
type PasswordHashing struct {
	BcryptCost int `yaml:"bcrypt_cost" env-default:"10"`
}

// RabbitMQ структура для настройки публикации событий
type RabbitMQ struct {
	Enabled    bool          `yaml:"enabled" env:"RABBITMQ_ENABLED" env-default:"false"`
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"users"`
	RoutingKey string        `yaml:"routing_key" env-default:"user.registered"`
	Retries    int           `yaml:"retries" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SeedUser описывает пользователя, создаваемого при старте приложения.
type SeedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// DefaultSeedUsers возвращает пользователей, которые создаются, если в конфиге не задано ни одного.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Username: "AdminUser", Email: "admin@example.com", Password: "admin123", Role: "admin"},
		{Username: "RegularUser", Email: "user@example.com", Password: "user123", Role: "user"},
	}
}

// Load читает конфиг по указанному пути и возвращает ошибку вместо завершения процесса.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(cfg.SeedUsers) == 0 {
		cfg.SeedUsers = DefaultSeedUsers()
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берется из переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  TTL: %s\n"+
			"  Secure: %t\n"+
			"  Store: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"SeedUsers: %d\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.CookieName,
		c.TTL,
		c.Secure,
		c.StoreBackend,
		c.AddressRedis,
		c.DB,
		c.Enabled,
		c.Exchange,
		len(c.SeedUsers),
	)
}
