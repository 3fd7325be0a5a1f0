package config

import "time"

// ServerConfig is the root configuration for tracker-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server" yaml:"server"`
	Auth    AuthSection    `koanf:"auth" yaml:"auth"`
	Storage StorageSection `koanf:"storage" yaml:"storage"`
	Log     LogSection     `koanf:"log" yaml:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" yaml:"http"`
	CORS CORSConfig `koanf:"cors" yaml:"cors"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file" yaml:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" yaml:"allowed_origins"`
}

// AuthSection configures token issuance and login throttling.
type AuthSection struct {
	// JWTSecret signs access tokens. Required.
	JWTSecret string        `koanf:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl" yaml:"token_ttl"`

	// LoginRate is the sustained login attempts per second allowed per email.
	LoginRate  float64 `koanf:"login_rate" yaml:"login_rate"`
	LoginBurst int     `koanf:"login_burst" yaml:"login_burst"`
}

// Storage drivers.
const (
	DriverBadger = "badger"
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// StorageSection selects and configures the account and expense store.
type StorageSection struct {
	Driver        string `koanf:"driver" yaml:"driver"`
	DataDir       string `koanf:"data_dir" yaml:"data_dir"`
	MongoURI      string `koanf:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database" yaml:"mongo_database"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
