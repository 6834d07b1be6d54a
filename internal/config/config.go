package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"ghostsets/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// League locates the game client the item sets are written to.
	League LeagueConfig `mapstructure:"league"`
	// Store holds the location of the imported version database.
	Store StoreConfig `mapstructure:"store"`
	// DDragon holds Data Dragon settings.
	DDragon DDragonConfig `mapstructure:"ddragon"`
	// UGG holds settings for the u.gg source.
	UGG UGGConfig `mapstructure:"ugg"`
	// Stats holds settings for the PostgreSQL stats source.
	Stats StatsConfig `mapstructure:"stats"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LeagueConfig holds the League installation directory, discovered when empty
type LeagueConfig struct {
	Dir string `mapstructure:"dir" default:""`
}

// StoreConfig holds the sqlite database path, the user config directory when empty
type StoreConfig struct {
	Path string `mapstructure:"path" default:""`
}

// DDragonConfig holds Data Dragon settings
type DDragonConfig struct {
	BaseURL        string `mapstructure:"base_url" default:"https://ddragon.leagueoflegends.com"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"10"`
}

// UGGConfig holds u.gg settings
type UGGConfig struct {
	PatchesURL     string `mapstructure:"patches_url" default:"https://static.bigbrain.gg/assets/lol/riot_patch_update/prod/ugg/patches.json"`
	StatsURL       string `mapstructure:"stats_url" default:"https://stats2.u.gg/lol"`
	Tier           string `mapstructure:"tier" default:"3"`
	MinGames       int    `mapstructure:"min_games" default:"50"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"10"`
}

// StatsConfig holds the stats database settings. The source is disabled without a URL.
type StatsConfig struct {
	DatabaseURL string `mapstructure:"database_url" default:""`
	MinGames    int    `mapstructure:"min_games" default:"50"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := ".env"
	if path != "" && path != "." {
		envPath = filepath.Join(path, ".env")
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. LEAGUE_DIR -> league.dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
