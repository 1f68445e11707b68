package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Settings is the on-disk settings.json layout.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	TMDB     TMDBSettings     `json:"tmdb"`
	Schedule ScheduleSettings `json:"schedule"`
	Storage  StorageSettings  `json:"storage"`
	Logging  LoggingSettings  `json:"logging"`
}

type ServerSettings struct {
	Addr               string   `json:"addr"`
	AllowedOrigins     []string `json:"allowedOrigins"`
	RateLimitPerMinute int      `json:"rateLimitPerMinute"`
	RateLimitBurst     int      `json:"rateLimitBurst"`
}

type TMDBSettings struct {
	APIKey         string `json:"apiKey"`
	BaseURL        string `json:"baseUrl"`
	ImageBaseURL   string `json:"imageBaseUrl"`
	Language       string `json:"language"`
	Region         string `json:"region"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	CacheTTLHours  int    `json:"cacheTtlHours"`
}

type ScheduleSettings struct {
	TVYayinAkisiBaseURL string `json:"tvyayinakisiBaseUrl"`
	TVPlusBaseURL       string `json:"tvplusBaseUrl"`
	UserAgent           string `json:"userAgent"`
	CacheMinutes        int    `json:"cacheMinutes"`
	FetchAttempts       int    `json:"fetchAttempts"`
	RefreshCron         string `json:"refreshCron"`
	Timezone            string `json:"timezone"`
}

type StorageSettings struct {
	DataDir      string `json:"dataDir"`
	DatabasePath string `json:"databasePath"`
}

type LoggingSettings struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
}

// DefaultSettings returns the settings used when no settings.json exists.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Addr:               ":8080",
			RateLimitPerMinute: 120,
			RateLimitBurst:     30,
		},
		TMDB: TMDBSettings{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p",
			Language:       "tr-TR",
			Region:         "TR",
			TimeoutSeconds: 10,
			CacheTTLHours:  1,
		},
		Schedule: ScheduleSettings{
			TVYayinAkisiBaseURL: "https://www.tvyayinakisi.com",
			TVPlusBaseURL:       "https://tvplus.com.tr",
			UserAgent:           "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			CacheMinutes:        30,
			FetchAttempts:       2,
			RefreshCron:         "*/30 * * * *",
			Timezone:            "Europe/Istanbul",
		},
		Storage: StorageSettings{
			DataDir: "data",
		},
		Logging: LoggingSettings{
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}
}

// Manager loads and persists settings.json.
type Manager struct {
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file, fills unset fields with defaults and applies
// environment overrides. A missing file is not an error.
func (m *Manager) Load() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := DefaultSettings()
	data, err := os.ReadFile(m.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", m.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings %s: %w", m.path, err)
	}

	s.fillDefaults()
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes settings atomically.
// EnsureFile writes the default settings to the manager's path when no file
// exists yet, so operators have a template to edit. Secrets still come from
// the environment.
func (m *Manager) EnsureFile() (bool, error) {
	if _, err := os.Stat(m.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := m.Save(DefaultSettings()); err != nil {
		return false, fmt.Errorf("write default settings: %w", err)
	}
	return true, nil
}

func (m *Manager) Save(s *Settings) error {
	if s == nil {
		return errors.New("nil settings")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// fillDefaults restores defaults for zero values a partial settings file left behind.
func (s *Settings) fillDefaults() {
	d := DefaultSettings()
	if s.Server.Addr == "" {
		s.Server.Addr = d.Server.Addr
	}
	if s.Server.RateLimitPerMinute == 0 {
		s.Server.RateLimitPerMinute = d.Server.RateLimitPerMinute
	}
	if s.Server.RateLimitBurst == 0 {
		s.Server.RateLimitBurst = d.Server.RateLimitBurst
	}
	if s.TMDB.BaseURL == "" {
		s.TMDB.BaseURL = d.TMDB.BaseURL
	}
	if s.TMDB.ImageBaseURL == "" {
		s.TMDB.ImageBaseURL = d.TMDB.ImageBaseURL
	}
	if s.TMDB.Language == "" {
		s.TMDB.Language = d.TMDB.Language
	}
	if s.TMDB.Region == "" {
		s.TMDB.Region = d.TMDB.Region
	}
	if s.TMDB.TimeoutSeconds == 0 {
		s.TMDB.TimeoutSeconds = d.TMDB.TimeoutSeconds
	}
	if s.TMDB.CacheTTLHours == 0 {
		s.TMDB.CacheTTLHours = d.TMDB.CacheTTLHours
	}
	if s.Schedule.TVYayinAkisiBaseURL == "" {
		s.Schedule.TVYayinAkisiBaseURL = d.Schedule.TVYayinAkisiBaseURL
	}
	if s.Schedule.TVPlusBaseURL == "" {
		s.Schedule.TVPlusBaseURL = d.Schedule.TVPlusBaseURL
	}
	if s.Schedule.UserAgent == "" {
		s.Schedule.UserAgent = d.Schedule.UserAgent
	}
	if s.Schedule.CacheMinutes == 0 {
		s.Schedule.CacheMinutes = d.Schedule.CacheMinutes
	}
	if s.Schedule.FetchAttempts == 0 {
		s.Schedule.FetchAttempts = d.Schedule.FetchAttempts
	}
	if s.Schedule.RefreshCron == "" {
		s.Schedule.RefreshCron = d.Schedule.RefreshCron
	}
	if s.Schedule.Timezone == "" {
		s.Schedule.Timezone = d.Schedule.Timezone
	}
	if s.Storage.DataDir == "" {
		s.Storage.DataDir = d.Storage.DataDir
	}
	if s.Logging.MaxSizeMB == 0 {
		s.Logging.MaxSizeMB = d.Logging.MaxSizeMB
	}
	if s.Logging.MaxBackups == 0 {
		s.Logging.MaxBackups = d.Logging.MaxBackups
	}
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); v != "" {
		s.TMDB.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("HANGIPLATFORM_ADDR")); v != "" {
		s.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("HANGIPLATFORM_DATA_DIR")); v != "" {
		s.Storage.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("HANGIPLATFORM_LOG_FILE")); v != "" {
		s.Logging.File = v
	}
}

// Validate reports the first malformed setting.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if s.Server.RateLimitPerMinute < 0 || s.Server.RateLimitBurst < 0 {
		return errors.New("server rate limits cannot be negative")
	}
	if s.TMDB.TimeoutSeconds <= 0 {
		return fmt.Errorf("tmdb.timeoutSeconds must be positive, got %d", s.TMDB.TimeoutSeconds)
	}
	if s.TMDB.CacheTTLHours <= 0 {
		return fmt.Errorf("tmdb.cacheTtlHours must be positive, got %d", s.TMDB.CacheTTLHours)
	}
	if s.Schedule.CacheMinutes <= 0 {
		return fmt.Errorf("schedule.cacheMinutes must be positive, got %d", s.Schedule.CacheMinutes)
	}
	if s.Schedule.FetchAttempts < 1 || s.Schedule.FetchAttempts > 5 {
		return fmt.Errorf("schedule.fetchAttempts must be between 1 and 5, got %d", s.Schedule.FetchAttempts)
	}
	if _, err := time.LoadLocation(s.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if _, err := cron.ParseStandard(s.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refreshCron: %w", err)
	}
	return nil
}

// Location returns the schedule timezone, falling back to UTC.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabasePath resolves the sqlite file, defaulting into the data directory.
func (s *Settings) DatabasePath() string {
	if s.Storage.DatabasePath != "" {
		return s.Storage.DatabasePath
	}
	return filepath.Join(s.Storage.DataDir, "hangiplatform.db")
}

// CacheDir is where the TMDB response cache lives.
func (s *Settings) CacheDir() string {
	return filepath.Join(s.Storage.DataDir, "cache")
}

// LoadEnvFile loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; existing variables win.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
