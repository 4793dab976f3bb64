package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFileVar names an alternative dotenv file. When it is set the file must
// exist.
const envFileVar = "CALC_ENV_FILE"

// loadDotEnv loads environment variables from .env, or from the file named
// by CALC_ENV_FILE. Existing process environment variables are not
// overridden, so values exported by the shell or orchestrator win.
func loadDotEnv() error {
	path := os.Getenv(envFileVar)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
