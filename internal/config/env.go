package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Env struct {
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE"`

	DBHost         string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort         int    `env:"DB_PORT" envDefault:"3306"`
	DBUser         string `env:"DB_USER" envDefault:"root"`
	DBPassword     string `env:"DB_PASSWORD"`
	DBName         string `env:"DB_NAME" envDefault:"railway"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`

	// Store selects the persistence backend: "mysql" or "memory".
	Store      string `env:"STORE" envDefault:"mysql"`
	PolicyFile string `env:"POLICY_FILE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	store, err := ParseStore(e.Store)
	if err != nil {
		return Env{}, fmt.Errorf("STORE: %w", err)
	}
	e.Store = store

	origins := e.CORSAllowedOrigins[:0]
	for _, o := range e.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	e.CORSAllowedOrigins = origins
	return e, nil
}

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// ParseStore normalizes a store name and rejects unknown backends.
func ParseStore(name string) (string, error) {
	store := strings.ToLower(strings.TrimSpace(name))
	switch store {
	case StoreMySQL, StoreMemory:
		return store, nil
	}
	return "", fmt.Errorf("unknown store %q (want %s or %s)", name, StoreMySQL, StoreMemory)
}
