// Package envfile loads credentials and proxy settings from dotenv files so
// users do not have to export them in every shell.
package envfile

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var loadOnce sync.Once

// Find returns the first .env file that exists, searching the explicit path
// (if given), the working directory, the home directory, then the config
// directory. Returns "" when none exists.
func Find(custom string) string {
	var candidates []string
	if custom != "" {
		candidates = append(candidates, custom)
	}
	candidates = append(candidates, ".env")

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".env"),
			filepath.Join(home, ".config", "camgr", ".env"),
		)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the first discovered .env file into the process environment.
// Existing variables win; the file only fills gaps. Loading happens at most
// once per process unless force is set. Missing files are not an error.
func Load(custom string, force bool) {
	load := func() {
		path := Find(custom)
		if path == "" {
			return
		}
		vars, err := godotenv.Read(path)
		if err != nil {
			logrus.Warnf("envfile: failed to read %s: %v", path, err)
			return
		}
		for key, value := range vars {
			if _, exists := os.LookupEnv(key); !exists {
				os.Setenv(key, value)
			}
		}
		logrus.Debugf("envfile: loaded %s", path)
	}

	if force {
		load()
		return
	}
	loadOnce.Do(load)
}
