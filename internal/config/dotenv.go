package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local and .env, in that order of precedence.
// godotenv never overwrites variables that are already set, so values
// exported in the real environment always take priority over either file.
// Returns the names of the files that were found.
func LoadDotEnv() []string {
	var found []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		found = append(found, name)
		_ = godotenv.Load(name)
	}
	return found
}
