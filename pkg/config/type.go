package config

type CollectorConfig struct {
	Entsoe          EntsoeConfig          `toml:"entsoe"`
	ElectricityMaps ElectricityMapsConfig `toml:"electricitymaps"`
	Price           PriceConfig           `toml:"price"`
	Storage         StorageConfig         `toml:"storage"`
	Metrics         MetricsConfig         `toml:"metrics"`

	// Only ever read from the environment or .env
	Credentials Credentials `toml:"-"`
}

type EntsoeConfig struct {
	APIURL string `toml:"api_url" env:"ENTSOE_API_URL"`
	// Spread points over the period by position and resolution
	// instead of stamping all of them with the period start.
	AdvanceByResolution bool `toml:"advance_by_resolution" env:"ENTSOE_ADVANCE_BY_RESOLUTION"`
}

type ElectricityMapsConfig struct {
	APIURL string `toml:"api_url" env:"ELECTRICITYMAPS_API_URL"`
}

type PriceConfig struct {
	// Constant used until a real price source is integrated
	FixedPriceEURKWh float64 `toml:"fixed_price_eur_kwh" env:"ENERGY_FIXED_PRICE_EUR_KWH"`
}

type StorageConfig struct {
	// `sqlite` or `influxdb`
	Backend        string `toml:"backend" env:"ENERGY_STORAGE_BACKEND"`
	InfluxAddress  string `toml:"influx_address" env:"INFLUX_ADDRESS"`
	InfluxDatabase string `toml:"influx_database" env:"INFLUX_DATABASE"`
	InfluxUsername string `toml:"influx_username" env:"INFLUX_USERNAME"`
	InfluxPassword string `toml:"-" env:"INFLUX_PASSWORD"`
}

type MetricsConfig struct {
	// Leave empty to skip pushing run metrics
	PushgatewayURL string `toml:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	JobName        string `toml:"job_name" env:"PUSHGATEWAY_JOB"`
}

type Credentials struct {
	EntsoeAPIKey          string `env:"ENTSOE_API_KEY"`
	ElectricityMapsAPIKey string `env:"ELECTRICITYMAPS_API_KEY"`
}

type EnergyAPIConfig struct {
	ListenAddress       string `toml:"listen_address" env:"ENERGY_API_LISTEN_ADDRESS"`
	ListenPort          int    `toml:"listen_port" env:"ENERGY_API_LISTEN_PORT"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds" env:"ENERGY_API_POLL_INTERVAL"`
}
