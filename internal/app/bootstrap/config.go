// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strings"

	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// mongoURIEnv overrides mongo_uri when set. It is the variable most hosting
// providers inject for a managed database.
const mongoURIEnv = "MONGODB_URI"

// appConfigKeys defines the configuration keys for CanopyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mongo_database, etc.
//   - Environment variables: CANOPYHUB_MONGO_URI, CANOPYHUB_REF_MAX_ATTEMPTS, etc.
//   - Command-line flags: --mongo_uri, --ref_max_attempts, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (MONGODB_URI takes precedence)"},
	{Name: "mongo_database", Default: "canopy_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// REF identifiers
	{Name: "ref_max_attempts", Default: 5, Desc: "REF generation attempts before reporting a conflict"},

	// Price list import
	{Name: "max_import_size", Default: csvutil.MaxUploadSize, Desc: "Largest price list import body in bytes (default: 5 MB)"},
	{Name: "import_rate_limit", Default: 10, Desc: "Price list imports per minute per client address (0 disables)"},

	{Name: "version", Default: "dev", Desc: "Version string reported by /health"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CANOPYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
//
// MONGODB_URI is applied last and wins over every other source.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CANOPYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		RefMaxAttempts:   appValues.Int("ref_max_attempts"),
		MaxImportSize:    int64(appValues.Int("max_import_size")),
		ImportRateLimit:  appValues.Int("import_rate_limit"),
		Version:          appValues.String("version"),
	}
	applyEnvOverrides(&appCfg, logger)

	return coreCfg, appCfg, nil
}

func applyEnvOverrides(appCfg *AppConfig, logger *zap.Logger) {
	if uri := strings.TrimSpace(os.Getenv(mongoURIEnv)); uri != "" {
		appCfg.MongoURI = uri
		logger.Info("mongo_uri overridden from environment", zap.String("env", mongoURIEnv))
	}
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// CanopyHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.RefMaxAttempts < 0 {
		return fmt.Errorf("ref_max_attempts must not be negative")
	}
	if appCfg.MaxImportSize < 0 {
		return fmt.Errorf("max_import_size must not be negative")
	}
	if appCfg.ImportRateLimit < 0 {
		return fmt.Errorf("import_rate_limit must not be negative")
	}
	return nil
}
