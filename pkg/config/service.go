package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/manufacturing_energy/pkg/pathing"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageBackendSQLite   = "sqlite"
	StorageBackendInfluxDB = "influxdb"
)

var (
	ActiveCollectorConfig *CollectorConfig
	ActiveEnergyAPIConfig *EnergyAPIConfig
)

func DefaultCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		Entsoe: EntsoeConfig{
			APIURL:              "https://web-api.tp.entsoe.eu/api",
			AdvanceByResolution: false,
		},
		ElectricityMaps: ElectricityMapsConfig{
			APIURL: "https://api.electricitymap.org/v3/carbon-intensity/latest",
		},
		Price: PriceConfig{
			FixedPriceEURKWh: 0.10,
		},
		Storage: StorageConfig{
			Backend:        StorageBackendSQLite,
			InfluxAddress:  "http://localhost:8086",
			InfluxDatabase: "energy_data",
		},
		Metrics: MetricsConfig{
			JobName: "energy_collector",
		},
	}
}

func DefaultEnergyAPIConfig() *EnergyAPIConfig {
	return &EnergyAPIConfig{
		ListenAddress:       "0.0.0.0",
		ListenPort:          9040,
		PollIntervalSeconds: 60,
	}
}

// Loads .env, the TOML file (written with defaults if missing) and
// environment overrides, in that order of precedence.
func LoadCollectorConfig() error {
	// Missing .env is fine, real environment still applies
	_ = godotenv.Load()

	cfg := DefaultCollectorConfig()
	configPath := filepath.Join(pathing.GetConfigDir(), "energy_collector.toml")
	if err := loadOrCreate(configPath, cfg); err != nil {
		return err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return err
	}
	ActiveCollectorConfig = cfg
	return nil
}

func LoadEnergyAPIConfig() error {
	_ = godotenv.Load()

	cfg := DefaultEnergyAPIConfig()
	configPath := filepath.Join(pathing.GetConfigDir(), "energy_api.toml")
	if err := loadOrCreate(configPath, cfg); err != nil {
		return err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return err
	}
	ActiveEnergyAPIConfig = cfg
	return nil
}

// cfg must already hold the defaults
func loadOrCreate(configPath string, cfg interface{}) error {
	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		if err := toml.NewEncoder(cfgFile).Encode(cfg); err != nil {
			// A partial file would be decoded on every later start
			cfgFile.Close()
			os.Remove(configPath)
			return err
		}
		return nil
	}

	// Load existing config over the defaults
	_, err := toml.DecodeFile(configPath, cfg)
	return err
}
