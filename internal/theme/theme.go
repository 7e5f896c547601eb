// Package theme stores the admin UI theme: a set of named presets plus a
// persisted per-admin configuration, cached in redis in front of Postgres.
package theme

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the active theme served to the admin UI.
type Config struct {
	SidebarBg     string `json:"sidebarBg"`
	SidebarAccent string `json:"sidebarAccent"`
	ButtonHoverBg string `json:"buttonHoverBg"`
	PrimaryColor  string `json:"primaryColor"`
	Logo          string `json:"logo,omitempty"`
	LastUpdated   int64  `json:"lastUpdated"`
}

// Preset is a selectable color scheme.
type Preset struct {
	SidebarBg     string `json:"sidebarBg"`
	SidebarAccent string `json:"sidebarAccent"`
	ButtonHoverBg string `json:"buttonHoverBg"`
	PrimaryColor  string `json:"primaryColor"`
	Label         string `json:"label"`
}

const hoverBg = "rgba(255, 255, 255, 0.5)"

// Presets are the built-in color schemes; purple is the default.
var Presets = map[string]Preset{
	"purple": {SidebarBg: "#E7D7F6", SidebarAccent: "#A982D9", ButtonHoverBg: hoverBg, PrimaryColor: "#A982D9", Label: "Purple (Default)"},
	"blue":   {SidebarBg: "#DCE7F8", SidebarAccent: "#5B8DEE", ButtonHoverBg: hoverBg, PrimaryColor: "#5B8DEE", Label: "Blue"},
	"green":  {SidebarBg: "#D7F1E7", SidebarAccent: "#2ECC71", ButtonHoverBg: hoverBg, PrimaryColor: "#2ECC71", Label: "Green"},
	"red":    {SidebarBg: "#F8DCE0", SidebarAccent: "#E74C3C", ButtonHoverBg: hoverBg, PrimaryColor: "#E74C3C", Label: "Red"},
	"orange": {SidebarBg: "#F8E4D0", SidebarAccent: "#F39C12", ButtonHoverBg: hoverBg, PrimaryColor: "#F39C12", Label: "Orange"},
	"indigo": {SidebarBg: "#E7DCF8", SidebarAccent: "#6C5CE7", ButtonHoverBg: hoverBg, PrimaryColor: "#6C5CE7", Label: "Indigo"},
}

// Default returns the stock purple theme.
func Default() Config {
	p := Presets["purple"]
	return Config{
		SidebarBg:     p.SidebarBg,
		SidebarAccent: p.SidebarAccent,
		ButtonHoverBg: p.ButtonHoverBg,
		PrimaryColor:  p.PrimaryColor,
		Logo:          "/images/admin.png",
		LastUpdated:   time.Now().UnixMilli(),
	}
}

// FromPreset builds a config from a named preset. Unknown names fall back to
// the default.
func FromPreset(name string) Config {
	p, ok := Presets[name]
	if !ok {
		return Default()
	}
	return Config{
		SidebarBg:     p.SidebarBg,
		SidebarAccent: p.SidebarAccent,
		ButtonHoverBg: p.ButtonHoverBg,
		PrimaryColor:  p.PrimaryColor,
		LastUpdated:   time.Now().UnixMilli(),
	}
}

// Store persists theme configs in the admin_settings table with a redis
// read-through cache. Redis being down degrades to database reads.
type Store struct {
	db    *sql.DB
	cache *redis.Client
	ttl   time.Duration
}

// NewStore creates a store. cache may be nil.
func NewStore(db *sql.DB, cache *redis.Client) *Store {
	return &Store{db: db, cache: cache, ttl: 10 * time.Minute}
}

func cacheKey(admin string) string {
	return "insight:theme:" + admin
}

func settingsKey(admin string) string {
	return "theme:" + admin
}

// Get returns the saved theme for an admin, or the default when none exists.
func (s *Store) Get(ctx context.Context, admin string) (Config, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(admin)).Result(); err == nil {
			var cfg Config
			if json.Unmarshal([]byte(raw), &cfg) == nil {
				return cfg, nil
			}
		}
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM admin_settings WHERE key = $1`, settingsKey(admin)).Scan(&raw)
	if err == sql.ErrNoRows {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load theme: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode theme: %w", err)
	}
	s.hydrate(ctx, admin, raw)
	return cfg, nil
}

// Save upserts the theme and refreshes the cache.
func (s *Store) Save(ctx context.Context, admin string, cfg Config) (Config, error) {
	cfg.LastUpdated = time.Now().UnixMilli()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, settingsKey(admin), raw)
	if err != nil {
		return Config{}, fmt.Errorf("save theme: %w", err)
	}

	s.hydrate(ctx, admin, raw)
	return cfg, nil
}

func (s *Store) hydrate(ctx context.Context, admin string, raw []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(admin), raw, s.ttl).Err(); err != nil {
		log.Printf("theme cache set failed: %v", err)
	}
}
