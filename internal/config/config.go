package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	Jaeger      string            `yaml:"jaeger" env:"JAEGER" env-default:"jaeger"`
	Log         LogConfig         `yaml:"log"`
	HTTP        HTTPConfig        `yaml:"http"`
	GRPC        GRPCConfig        `yaml:"grpc"`
	DB          DBConfig          `yaml:"db"`
	Redis       RedisConfig       `yaml:"redis"`
	Google      GoogleConfig      `yaml:"google"`
	OpenWeather OpenWeatherConfig `yaml:"openweather"`
	ElevenLabs  ElevenLabsConfig  `yaml:"elevenlabs"`
	Places      PlacesConfig      `yaml:"places"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Voice       VoiceConfig       `yaml:"voice"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"8s"`
	VoiceTimeout    time.Duration `yaml:"voice_timeout" env:"HTTP_VOICE_TIMEOUT" env-default:"25s"`
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Host           string        `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port           int           `yaml:"port" env:"GRPC_PORT" env-default:"44046"`
	HealthInterval time.Duration `yaml:"health_interval" env:"GRPC_HEALTH_INTERVAL" env-default:"15s"`
}

type DBConfig struct {
	DSN      string `yaml:"dsn" env:"DB_DSN"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"require"`
}

func (c DBConfig) DatabaseURL() string {
	if c.DSN != "" {
		return c.DSN
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type GoogleConfig struct {
	BaseURL         string        `yaml:"base_url" env:"GOOGLE_MAPS_BASE_URL" env-default:"https://maps.googleapis.com"`
	APIKey          string        `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
	Language        string        `yaml:"language" env:"GOOGLE_MAPS_LANGUAGE" env-default:"es"`
	Timeout         time.Duration `yaml:"timeout" env:"GOOGLE_MAPS_TIMEOUT" env-default:"5s"`
	GeocodeCacheTTL time.Duration `yaml:"geocode_cache_ttl" env:"GOOGLE_GEOCODE_CACHE_TTL" env-default:"6h"`
}

type OpenWeatherConfig struct {
	BaseURL  string        `yaml:"base_url" env:"OPENWEATHER_BASE_URL" env-default:"https://api.openweathermap.org"`
	APIKey   string        `yaml:"api_key" env:"OPENWEATHER_API_KEY"`
	Units    string        `yaml:"units" env:"OPENWEATHER_UNITS" env-default:"metric"`
	Language string        `yaml:"language" env:"OPENWEATHER_LANGUAGE" env-default:"es"`
	Timeout  time.Duration `yaml:"timeout" env:"OPENWEATHER_TIMEOUT" env-default:"5s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"OPENWEATHER_CACHE_TTL" env-default:"10m"`
}

type ElevenLabsConfig struct {
	BaseURL string        `yaml:"base_url" env:"ELEVENLABS_BASE_URL" env-default:"https://api.elevenlabs.io"`
	APIKey  string        `yaml:"api_key" env:"ELEVENLABS_API_KEY"`
	AgentID string        `yaml:"agent_id" env:"ELEVENLABS_AGENT_ID"`
	Timeout time.Duration `yaml:"timeout" env:"ELEVENLABS_TIMEOUT" env-default:"10s"`
}

type PlacesConfig struct {
	DefaultRadius int           `yaml:"default_radius" env:"PLACES_DEFAULT_RADIUS" env-default:"1500"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"PLACES_CACHE_TTL" env-default:"15m"`
	RPS           float64       `yaml:"rps" env:"PLACES_RPS" env-default:"10"`
	Burst         int           `yaml:"burst" env:"PLACES_BURST" env-default:"5"`
}

type ScheduleConfig struct {
	SeedPath  string        `yaml:"seed_path" env:"SCHEDULE_SEED_PATH" env-default:"data/schedule.yaml"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env:"SCHEDULE_CACHE_TTL" env-default:"30m"`
	DisplayTZ string        `yaml:"display_tz" env:"SCHEDULE_DISPLAY_TZ" env-default:"America/Mexico_City"`
	Locale    string        `yaml:"locale" env:"SCHEDULE_LOCALE" env-default:"es_ES"`
	Limit     int           `yaml:"limit" env:"SCHEDULE_LIMIT" env-default:"6"`
}

type VoiceConfig struct {
	LogCapacity      int           `yaml:"log_capacity" env:"VOICE_LOG_CAPACITY" env-default:"200"`
	LogKey           string        `yaml:"log_key" env:"VOICE_LOG_KEY" env-default:"voice:logs"`
	ICEGatherTimeout time.Duration `yaml:"ice_gather_timeout" env:"VOICE_ICE_GATHER_TIMEOUT" env-default:"5s"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exists: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}
