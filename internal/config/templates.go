package config

import (
	"fmt"
	"os"
)

// WriteTemplate drops a starter config file for a new deployment.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(serverTemplate), 0o600)
}

const serverTemplate = `dataset_path = "data/planetary_resources.csv"
fallback_path = "data/planetary_resources.yaml"
data_root = "data"
# user = "pilot"
backend = "file"       # file | sqlite
listen_addr = ":8600"
cors_origins = ["http://localhost:3000"]
log_level = "info"
http_timeout = "30s"
`
