package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/khanghh/kontest/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr  = ":3000"
	DefaultSiteName    = "Kontest"
	DefaultGeoProvider = "ipapi"
)

type MySQLConfig struct {
	Dsn             string   `mapstructure:"dsn"`
	TablePrefix     string   `mapstructure:"tablePrefix"`
	Replicas        []string `mapstructure:"replicas"`
	MaxIdleConns    int      `mapstructure:"maxIdleConns"`
	MaxOpenConns    int      `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int      `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int      `mapstructure:"connMaxLifetime"`
}

type SessionConfig struct {
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      bool   `mapstructure:"tls"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`
}

type MailConfig struct {
	Backend string     `mapstructure:"backend"`
	From    string     `mapstructure:"from"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type TurnstileConfig struct {
	SiteKey   string `mapstructure:"siteKey"`
	SecretKey string `mapstructure:"secretKey"`
}

type CaptchaConfig struct {
	Provider  string          `mapstructure:"provider"`
	Turnstile TurnstileConfig `mapstructure:"turnstile,omitempty"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type GeoIPConfig struct {
	Provider     string        `mapstructure:"provider"` // ipapi or maxmind
	BaseURL      string        `mapstructure:"baseURL"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rateLimit"`
	Burst        int           `mapstructure:"burst"`
	DatabasePath string        `mapstructure:"databasePath"` // GeoLite2-City database for the maxmind provider
}

type RateLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type Config struct {
	Debug          bool            `mapstructure:"debug"`
	SiteName       string          `mapstructure:"siteName"`
	BaseURL        string          `mapstructure:"baseURL"`
	MasterKey      string          `mapstructure:"masterKey"`
	ListenAddr     string          `mapstructure:"listenAddr"`
	TemplateDir    string          `mapstructure:"templateDir"`
	AllowOrigins   []string        `mapstructure:"allowOrigins"`
	Redis          RedisConfig     `mapstructure:"redis"`
	Session        SessionConfig   `mapstructure:"session"`
	Mail           MailConfig      `mapstructure:"mail"`
	MySQL          MySQLConfig     `mapstructure:"mysql"`
	Captcha        CaptchaConfig   `mapstructure:"captcha"`
	GeoIP          GeoIPConfig     `mapstructure:"geoip"`
	LoginRateLimit RateLimitConfig `mapstructure:"loginRateLimit"`
}

func (c *Config) Sanitize() error {
	if c.MasterKey == "" {
		return ErrMissingMasterKey
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SiteName == "" {
		c.SiteName = DefaultSiteName
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = params.DefaultSessionMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = params.DefaultSessionCookieKey
	}
	if c.GeoIP.Provider == "" {
		c.GeoIP.Provider = DefaultGeoProvider
	}
	if c.GeoIP.BaseURL == "" {
		c.GeoIP.BaseURL = params.DefaultGeoProviderURL
	}
	if c.GeoIP.Timeout <= 0 {
		c.GeoIP.Timeout = params.GeoLookupTimeout
	}
	if c.GeoIP.RateLimit <= 0 {
		c.GeoIP.RateLimit = params.GeoLookupRateLimit
	}
	if c.GeoIP.Burst <= 0 {
		c.GeoIP.Burst = params.GeoLookupBurst
	}
	if c.LoginRateLimit.Max <= 0 {
		c.LoginRateLimit.Max = params.LoginRateLimitMax
	}
	if c.LoginRateLimit.Window <= 0 {
		c.LoginRateLimit.Window = params.LoginRateLimitWindow
	}
	return nil
}

// LoadConfig reads the YAML config file. Environment variables override file
// values, using "_" in place of "." (e.g. MYSQL_DSN). A .env file in the working
// directory is loaded first when present.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
