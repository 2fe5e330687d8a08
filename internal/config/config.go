package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/roarbis/RoleRadar/internal/match"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/pipeline"
)

const (
	DirName         = "roleradar"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	DBFileName      = "jobs.db"
)

// Role is one configured role of interest.
type Role struct {
	Name     string   `json:"name"`
	Match    string   `json:"match"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// Config contains scan settings. Everything here is overridable per run via
// flags; the file just fixes the defaults.
type Config struct {
	Roles            []Role   `json:"roles"`
	Sources          []string `json:"sources"`
	Location         string   `json:"location"`
	AdzunaAppID      string   `json:"adzuna_app_id"`
	AdzunaAppKey     string   `json:"adzuna_app_key"`
	Concurrency      int      `json:"concurrency"`
	TimeoutSeconds   int      `json:"timeout_seconds"`
	SimilarThreshold float64  `json:"similar_threshold"`
	DatabasePath     string   `json:"database_path"`
}

func DefaultConfig() Config {
	return Config{
		Sources:          []string{"seek", "indeed", "jora", "linkedin", "gradconnection"},
		Location:         envString("ROLERADAR_LOCATION", "Australia"),
		AdzunaAppID:      envString("ROLERADAR_ADZUNA_APP_ID", ""),
		AdzunaAppKey:     envString("ROLERADAR_ADZUNA_APP_KEY", ""),
		Concurrency:      envInt("ROLERADAR_CONCURRENCY", pipeline.DefaultConcurrency),
		TimeoutSeconds:   envInt("ROLERADAR_TIMEOUT_SECONDS", 30),
		SimilarThreshold: match.DefaultSimilarThreshold,
	}
}

// RoleQueries converts configured roles into validated queries.
func (c Config) RoleQueries() ([]models.RoleQuery, error) {
	queries := make([]models.RoleQuery, 0, len(c.Roles))
	for _, role := range c.Roles {
		matchType, err := models.ParseMatchType(role.Match)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", role.Name, err)
		}
		query := models.RoleQuery{
			Name:     strings.TrimSpace(role.Name),
			Match:    matchType,
			Synonyms: role.Synonyms,
		}
		if err := query.Validate(); err != nil {
			return nil, err
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// DBPath resolves the database location: explicit config value first, then
// the config directory default.
func (c Config) DBPath() (string, error) {
	if strings.TrimSpace(c.DatabasePath) != "" {
		return c.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("ROLERADAR_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
