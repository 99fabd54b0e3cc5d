package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	ProjectID       string
	CredentialsJSON []byte
}

// Load resolves the service credential for the document store, preferring a
// file path in GOOGLE_APPLICATION_CREDENTIALS and falling back to an inline
// FIREBASE_CREDENTIALS_JSON blob (how the scheduled runner injects it).
// Absence of both is a fatal setup error for every entrypoint. The store
// project is read from the credential's project_id.
func Load() (*Config, error) {
	// optional .env for local runs
	_ = godotenv.Load()

	cfg := &Config{
		Env: os.Getenv("PORTFOLIO_ENV"),
	}

	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read credentials file %s: %w", path, err)
		}
		cfg.CredentialsJSON = raw
	}
	if len(cfg.CredentialsJSON) == 0 {
		cfg.CredentialsJSON = []byte(os.Getenv("FIREBASE_CREDENTIALS_JSON"))
	}
	if len(cfg.CredentialsJSON) == 0 {
		return nil, fmt.Errorf("no service credentials found: set GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_CREDENTIALS_JSON")
	}

	var cred struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(cfg.CredentialsJSON, &cred); err != nil {
		return nil, fmt.Errorf("could not parse service credentials: %w", err)
	}
	if cred.ProjectID == "" {
		return nil, fmt.Errorf("service credentials missing project_id")
	}
	cfg.ProjectID = cred.ProjectID

	return cfg, nil
}
