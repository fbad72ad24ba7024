package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DevelopmentSecret só é aceito fora de produção
const DevelopmentSecret = "insecure-development-secret-change-me"

const MaxTransactionLimit = 500

var ErrInsecureSecret = errors.New("AUTH_SECRET ausente ou com o valor de desenvolvimento em produção")

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Report        Report        `mapstructure:",squash"`
	SourceProbe   SourceProbe   `mapstructure:",squash"`
	Redis         Redis         `mapstructure:",squash"`
	LoginThrottle LoginThrottle `mapstructure:",squash"`
	Telemetry     Telemetry     `mapstructure:",squash"`
	Bootstrap     Bootstrap     `mapstructure:",squash"`
}

type App struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	StaticDir      string   `mapstructure:"static_dir"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN             string        `mapstructure:"-"`
	Driver          string        `mapstructure:"database_driver"`
	Password        string        `mapstructure:"database_password"`
	URL             string        `mapstructure:"database_url"`
	User            string        `mapstructure:"database_user"`
	SSLMode         string        `mapstructure:"database_ssl_mode"`
	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type Auth struct {
	Secret       string        `mapstructure:"auth_secret"`
	TokenTTL     time.Duration `mapstructure:"auth_token_ttl"`
	CookieName   string        `mapstructure:"auth_cookie_name"`
	BcryptCost   int           `mapstructure:"auth_bcrypt_cost"`
	VerifyActive bool          `mapstructure:"auth_verify_active"`
}

type Report struct {
	TransactionLimit int           `mapstructure:"report_transaction_limit"`
	QueryTimeout     time.Duration `mapstructure:"report_query_timeout"`
}

type SourceProbe struct {
	CronSchedule string `mapstructure:"source_probe_cron"`
	Enabled      bool   `mapstructure:"source_probe_enabled"`
}

type Redis struct {
	URL string `mapstructure:"redis_url"`
}

type LoginThrottle struct {
	MaxAttempts int           `mapstructure:"login_max_attempts"`
	Window      time.Duration `mapstructure:"login_attempt_window"`
}

type Telemetry struct {
	OTLPEndpoint string `mapstructure:"otel_exporter_otlp_endpoint"`
	ServiceName  string `mapstructure:"otel_service_name"`
}

type Bootstrap struct {
	AdminEmail string `mapstructure:"bootstrap_admin_email"`
}

func SetDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("STATIC_DIR", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/income_report")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSL_MODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "168h") // 7 dias
	viper.SetDefault("AUTH_COOKIE_NAME", "auth-token")
	viper.SetDefault("AUTH_BCRYPT_COST", 12)
	viper.SetDefault("AUTH_VERIFY_ACTIVE", true)

	viper.SetDefault("REPORT_TRANSACTION_LIMIT", MaxTransactionLimit)
	viper.SetDefault("REPORT_QUERY_TIMEOUT", "30s")

	viper.SetDefault("SOURCE_PROBE_CRON", "*/10 * * * *") // A cada 10 minutos
	viper.SetDefault("SOURCE_PROBE_ENABLED", true)

	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	viper.SetDefault("LOGIN_ATTEMPT_WINDOW", "15m")

	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("OTEL_SERVICE_NAME", "income-report-api")

	viper.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Env)
	return env == "production" || env == "prod"
}

// Validate recusa segredo inseguro em produção e normaliza os demais valores
func (c *Config) Validate() error {
	if c.Auth.Secret == "" || c.Auth.Secret == DevelopmentSecret {
		if c.IsProduction() {
			return ErrInsecureSecret
		}
		logrus.Warn("AUTH_SECRET não definido, usando segredo de desenvolvimento. Não use em produção")
		c.Auth.Secret = DevelopmentSecret
	}

	if c.Report.TransactionLimit <= 0 || c.Report.TransactionLimit > MaxTransactionLimit {
		c.Report.TransactionLimit = MaxTransactionLimit
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "auth-token"
	}

	origins := c.Server.AllowedOrigins[:0]
	for _, origin := range c.Server.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Server.AllowedOrigins = origins

	return nil
}

func (d Database) BuildDSN() string {
	dsn := fmt.Sprintf(
		"%s://%s:%s@%s",
		d.Driver,
		d.User,
		d.Password,
		d.URL,
	)

	if d.SSLMode != "" && !strings.Contains(d.URL, "sslmode=") {
		separator := "?"
		if strings.Contains(d.URL, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=" + d.SSLMode
	}

	return dsn
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
