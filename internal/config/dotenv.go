package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file loaded before flags are parsed.
// LANTERNCALC_ENV_FILE names another one.
const DefaultEnvFile = ".env"

// LoadEnvFile loads LANTERNCALC_* variables from a dotenv file so that they
// take part in the usual flag > environment > default priority. Other keys in
// the file are ignored, and variables already present in the process
// environment win over the file.
//
// An empty path means LANTERNCALC_ENV_FILE, then DefaultEnvFile. A missing
// file is not an error; loaded reports whether a file was read. A default
// .env that does not parse belongs to some other tool and is skipped; a file
// named explicitly must parse.
func LoadEnvFile(path string) (loaded bool, err error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvPrefix + "ENV_FILE")
	}
	if path == "" {
		path = DefaultEnvFile
		explicit = false
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit {
			return false, nil
		}
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	for key, value := range vars {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return false, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return true, nil
}
