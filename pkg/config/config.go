package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env, archivo opcional y flags).
type Config struct {
	App    AppConfig
	Input  InputConfig
	Output OutputConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// InputConfig archivo de entrada y cómo leerlo.
type InputConfig struct {
	Path      string
	HasHeader bool
	Encoding  string // utf-8 | latin1
	Workers   int    // 1 = secuencial
}

// OutputConfig archivo de salida.
type OutputConfig struct {
	Path   string
	Format string // csv | xlsx | pdf
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Persist     bool // guardar cada ejecución y sus filas
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// Enabled indica si hay datos de conexión suficientes.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Flags define las banderas del CLI; cada una sobreescribe su variable de entorno.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "archivo CSV de entrada (INPUT_PATH)")
	fs.StringP("output", "o", "result.csv", "archivo de salida (OUTPUT_PATH)")
	fs.Bool("header", true, "la entrada tiene fila de encabezado (INPUT_HAS_HEADER)")
	fs.String("encoding", "utf-8", "codificación de la entrada: utf-8 | latin1 (INPUT_ENCODING)")
	fs.StringP("format", "f", "csv", "formato de salida: csv | xlsx | pdf (OUTPUT_FORMAT)")
	fs.Int("workers", 1, "goroutines de ingesta; >1 reparte por número (INGEST_WORKERS)")
	fs.Bool("persist", false, "guardar la ejecución en PostgreSQL (PERSIST_RESULTS)")
	fs.String("log-level", "info", "trace | debug | info | warn | error (LOG_LEVEL)")
}

var flagKeys = map[string]string{
	"input":     "INPUT_PATH",
	"output":    "OUTPUT_PATH",
	"header":    "INPUT_HAS_HEADER",
	"encoding":  "INPUT_ENCODING",
	"format":    "OUTPUT_FORMAT",
	"workers":   "INGEST_WORKERS",
	"persist":   "PERSIST_RESULTS",
	"log-level": "LOG_LEVEL",
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, INPUT_PATH, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags como Load, pero las banderas modificadas en fs tienen prioridad sobre env.
func LoadWithFlags(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "activacion-real"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Input: InputConfig{
			Path:      getString(v, "INPUT_PATH", ""),
			HasHeader: getBool(v, "INPUT_HAS_HEADER", true),
			Encoding:  getString(v, "INPUT_ENCODING", "utf-8"),
			Workers:   getInt(v, "INGEST_WORKERS", 1),
		},
		Output: OutputConfig{
			Path:   getString(v, "OUTPUT_PATH", "result.csv"),
			Format: getString(v, "OUTPUT_FORMAT", "csv"),
		},
		DB: DBConfig{
			Persist:     getBool(v, "PERSIST_RESULTS", false),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "activaciones"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "activacion-real"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 64),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	if cfg.Input.Workers < 1 {
		return nil, fmt.Errorf("INGEST_WORKERS debe ser >= 1 (recibido %d)", cfg.Input.Workers)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
