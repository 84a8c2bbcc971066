package config

import (
	"flag"
	"net"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	ServerURL   string `env:"-"`

	// Site settings
	SiteDomain string `env:"SITE_DOMAIN"`
	MediaRoot  string `env:"MEDIA_ROOT"`

	// Limits. Нулевые значения заменяются значениями по умолчанию.
	ItemPerUserLimit int `env:"ITEM_PER_USER_LIMIT"`
	RelatedLimit     int `env:"RELATED_LIMIT"`
	SearchPageSize   int `env:"SEARCH_PAGE_SIZE"`
	ImageSlots       int `env:"IMAGE_SLOTS"`
	ImageMaxSizeMB   int `env:"IMAGE_MAX_MB"`
	RateLimitPerMin  int `env:"RATE_LIMIT_PER_MIN"`
}

const (
	defaultBaseURL          = "localhost:8081"
	defaultItemPerUserLimit = 20
	defaultRelatedLimit     = 4
	defaultSearchPageSize   = 10
	defaultImageSlots       = 3
	defaultImageMaxSizeMB   = 5
	defaultRateLimitPerMin  = 30
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// NewConfig читает .env, переменные окружения и флаги командной строки.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "сайт работает по https")
	flag.StringVar(&cfg.SiteDomain, "site-domain", cfg.SiteDomain, "домен сайта для robots.txt")
	flag.StringVar(&cfg.MediaRoot, "media-root", cfg.MediaRoot, "каталог для загруженных изображений")
	flag.IntVar(&cfg.ItemPerUserLimit, "item-limit", cfg.ItemPerUserLimit, "лимит объявлений на пользователя")
	flag.IntVar(&cfg.RateLimitPerMin, "rate-limit", cfg.RateLimitPerMin, "запросов в минуту на вход и создание объявлений")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// BaseURL: только "address:port" без схемы и пути, иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.SiteDomain == "" {
		host, _, err := net.SplitHostPort(cfg.BaseURL)
		if err != nil {
			host = cfg.BaseURL
		}
		cfg.SiteDomain = host
	}
	if cfg.MediaRoot == "" {
		cfg.MediaRoot = "media"
	}

	setDefault(&cfg.ItemPerUserLimit, defaultItemPerUserLimit)
	setDefault(&cfg.RelatedLimit, defaultRelatedLimit)
	setDefault(&cfg.SearchPageSize, defaultSearchPageSize)
	setDefault(&cfg.ImageSlots, defaultImageSlots)
	setDefault(&cfg.ImageMaxSizeMB, defaultImageMaxSizeMB)
	setDefault(&cfg.RateLimitPerMin, defaultRateLimitPerMin)
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
