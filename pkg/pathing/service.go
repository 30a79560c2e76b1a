package pathing

import (
	"os"
	"path/filepath"
)

// Must be called on startup by binaries that write to the data dir
func EnsureDirs() error {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
		GetConfigDir(),
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

func GetEnergyDbPath() string {
	return filepath.Join(GetDataDir(), "manufacturing-energy.db")
}

// ENERGY_DATA_DIR overrides the default location
func GetDataDir() string {
	if dir := os.Getenv("ENERGY_DATA_DIR"); dir != "" {
		return dir
	}
	return "/var/lib/manufacturing_energy"
}

// ENERGY_CONFIG_DIR overrides the default location
func GetConfigDir() string {
	if dir := os.Getenv("ENERGY_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "/etc/manufacturing_energy"
}
