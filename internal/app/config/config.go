package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"surgicare-core/internal/infrastructure/database/mongodb"
	"surgicare-core/internal/infrastructure/database/postgres"
	"surgicare-core/internal/infrastructure/database/redis"
	authServices "surgicare-core/internal/modules/auth/services"
	counselingServices "surgicare-core/internal/modules/counseling/services"
	exportServices "surgicare-core/internal/modules/exports/services"
	syncServices "surgicare-core/internal/modules/sync/services"

	"github.com/joho/godotenv"
)

// Uniquement variables d'environnement

// Config structure unifiée
type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	MongoDB       MongoConfig
	Sync          SyncConfig
	Collaborators CollaboratorsConfig
	Logging       LoggingConfig
	CORS          CORSConfig
}

// ServerConfig configuration serveur HTTP
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"`
	Port         int           `env:"SERVER_PORT"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT"`
}

// DatabaseConfig configuration PostgreSQL
type DatabaseConfig struct {
	Host     string `env:"DB_HOST"`
	Port     int    `env:"DB_PORT"`
	Database string `env:"DB_NAME"`
	Username string `env:"DB_USERNAME"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSL_MODE"`
}

// RedisConfig configuration Redis
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	Database int    `env:"REDIS_DATABASE"`
}

// MongoConfig configuration MongoDB
type MongoConfig struct {
	URI      string `env:"MONGODB_URI"`
	Database string `env:"MONGODB_DATABASE"`
}

// SyncConfig configuration du moteur de synchronisation
type SyncConfig struct {
	PatientsRowKey  string        `env:"SYNC_PATIENTS_ROW_KEY"`
	StaffRowKey     string        `env:"SYNC_STAFF_ROW_KEY"`
	DebounceSeconds time.Duration `env:"SYNC_DEBOUNCE_SECONDS"`
}

// CollaboratorsConfig configuration des collaborateurs externes (tous optionnels :
// chaque service a son fallback quand l'URL est vide)
type CollaboratorsConfig struct {
	StrategyEndpoint   string `env:"STRATEGY_ENDPOINT"`
	StrategyAPIKey     string `env:"STRATEGY_API_KEY"`
	SMSGatewayURL      string `env:"SMS_GATEWAY_URL"`
	SMSGatewayKey      string `env:"SMS_GATEWAY_KEY"`
	SpreadsheetWebhook string `env:"SPREADSHEET_WEBHOOK_URL"`
}

// LoggingConfig configuration logging
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL"`
}

// CORSConfig configuration CORS
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int      `env:"CORS_MAX_AGE"`
}

// NewConfig charge la configuration depuis les variables d'environnement uniquement
func NewConfig() (*Config, error) {
	// Charger le fichier .env (optionnel)
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("[CONFIG] Warning: Fichier .env non trouvé: %v\n", err)
	}

	config := &Config{}

	// Déterminer environnement
	config.Environment = getEnv("APP_ENV", "development")

	// Charger configuration serveur
	config.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "localhost"),
		Port:         getEnvInt("SERVER_PORT", 4000),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30) * time.Second,
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30) * time.Second,
	}

	// Charger configuration database
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		Database: getEnv("DB_NAME", "surgicare"),
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Charger configuration Redis
	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		Database: getEnvInt("REDIS_DATABASE", 0),
	}

	// Charger configuration MongoDB
	config.MongoDB = MongoConfig{
		URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGODB_DATABASE", "surgicare_artifacts"),
	}

	// Charger configuration sync
	config.Sync = SyncConfig{
		PatientsRowKey:  getEnv("SYNC_PATIENTS_ROW_KEY", "surgicare_patients"),
		StaffRowKey:     getEnv("SYNC_STAFF_ROW_KEY", "surgicare_staff"),
		DebounceSeconds: getEnvDuration("SYNC_DEBOUNCE_SECONDS", 1) * time.Second,
	}

	// Charger configuration collaborateurs externes
	config.Collaborators = CollaboratorsConfig{
		StrategyEndpoint:   getEnv("STRATEGY_ENDPOINT", ""),
		StrategyAPIKey:     getEnv("STRATEGY_API_KEY", ""),
		SMSGatewayURL:      getEnv("SMS_GATEWAY_URL", ""),
		SMSGatewayKey:      getEnv("SMS_GATEWAY_KEY", ""),
		SpreadsheetWebhook: getEnv("SPREADSHEET_WEBHOOK_URL", ""),
	}

	// Charger configuration logging
	config.Logging = LoggingConfig{
		Level: getEnv("LOG_LEVEL", "debug"),
	}

	// Charger configuration CORS
	config.CORS = CORSConfig{
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
	}

	// Validation configuration critique
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("validation configuration échouée: %w", err)
	}

	fmt.Printf("[CONFIG] ✅ Configuration chargée pour environnement: %s\n", config.Environment)
	return config, nil
}

// Getters pour compatibilité avec l'ancien code
func (c *Config) GetDatabase() DatabaseConfig           { return c.Database }
func (c *Config) GetRedis() RedisConfig                 { return c.Redis }
func (c *Config) GetMongoDB() MongoConfig               { return c.MongoDB }
func (c *Config) GetSync() SyncConfig                   { return c.Sync }
func (c *Config) GetCollaborators() CollaboratorsConfig { return c.Collaborators }
func (c *Config) GetServer() ServerConfig               { return c.Server }
func (c *Config) GetLogging() LoggingConfig             { return c.Logging }
func (c *Config) GetCORS() CORSConfig                   { return c.CORS }

// Providers pour database ConfigProvider (compatibilité)
func NewDatabaseConfigProvider(config *Config) *DatabaseConfigProvider {
	return &DatabaseConfigProvider{
		Database: DatabaseConfig(config.Database),
		Redis:    RedisConfig(config.Redis),
		MongoDB:  MongoConfig(config.MongoDB),
	}
}

type DatabaseConfigProvider struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MongoDB  MongoConfig
}

// Convertisseurs vers configurations infrastructure
func NewPostgresConfig(config *DatabaseConfigProvider) *postgres.DatabaseConfig {
	return &postgres.DatabaseConfig{
		Host:     config.Database.Host,
		Port:     config.Database.Port,
		Database: config.Database.Database,
		Username: config.Database.Username,
		Password: config.Database.Password,
		SSLMode:  config.Database.SSLMode,
	}
}

func NewRedisConfig(config *DatabaseConfigProvider) *redis.RedisConfig {
	return &redis.RedisConfig{
		Host:     config.Redis.Host,
		Port:     config.Redis.Port,
		Password: config.Redis.Password,
		Database: config.Redis.Database,
	}
}

func NewMongoConfig(config *DatabaseConfigProvider) *mongodb.MongoConfig {
	return &mongodb.MongoConfig{
		URI:      config.MongoDB.URI,
		Database: config.MongoDB.Database,
	}
}

// Convertisseurs vers configurations des modules métier
func NewEngineConfig(config *Config) syncServices.EngineConfig {
	return syncServices.EngineConfig{
		PatientsRowKey: config.Sync.PatientsRowKey,
		StaffRowKey:    config.Sync.StaffRowKey,
		Debounce:       config.Sync.DebounceSeconds,
	}
}

func NewStrategyConfig(config *Config) counselingServices.StrategyConfig {
	return counselingServices.StrategyConfig{
		Endpoint: config.Collaborators.StrategyEndpoint,
		APIKey:   config.Collaborators.StrategyAPIKey,
	}
}

func NewOTPConfig(config *Config) authServices.OTPConfig {
	return authServices.OTPConfig{
		GatewayURL: config.Collaborators.SMSGatewayURL,
		GatewayKey: config.Collaborators.SMSGatewayKey,
	}
}

func NewSpreadsheetConfig(config *Config) exportServices.SpreadsheetConfig {
	return exportServices.SpreadsheetConfig{
		WebhookURL: config.Collaborators.SpreadsheetWebhook,
	}
}

// Helpers pour parsing variables d'environnement
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds))
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// validateConfig valide la configuration selon l'environnement
func validateConfig(config *Config) error {
	env := config.Environment

	// Validation environnements supportés
	if env != "development" && env != "docker" {
		return fmt.Errorf("environnement non supporté: %s (utilisez 'development' ou 'docker')", env)
	}

	// Variables critiques en mode docker (production/staging)
	if env == "docker" {
		missingVars := []string{}
		if config.Database.Password == "" {
			missingVars = append(missingVars, "DB_PASSWORD")
		}
		if len(missingVars) > 0 {
			return fmt.Errorf("variables critiques manquantes pour environnement docker: %v", missingVars)
		}

		if config.Redis.Password == "" {
			fmt.Printf("[CONFIG] ⚠️ REDIS_PASSWORD non défini pour environnement docker\n")
		}
	}

	if config.Sync.PatientsRowKey == config.Sync.StaffRowKey {
		return fmt.Errorf("les clés de ligne patients et staff doivent être distinctes")
	}

	return nil
}
