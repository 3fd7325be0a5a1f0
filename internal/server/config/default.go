package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSOrigin      = "http://localhost:4200"

	DefaultTokenTTL   = time.Hour
	DefaultLoginRate  = 1.0
	DefaultLoginBurst = 5

	DefaultDriver        = DriverBadger
	DefaultDataDir       = "/var/lib/tracker-server/data"
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "Personal-info-updates"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration. JWTSecret has no
// default and must be configured.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{DefaultCORSOrigin},
			},
		},
		Auth: AuthSection{
			TokenTTL:   DefaultTokenTTL,
			LoginRate:  DefaultLoginRate,
			LoginBurst: DefaultLoginBurst,
		},
		Storage: StorageSection{
			Driver:        DefaultDriver,
			DataDir:       DefaultDataDir,
			MongoURI:      DefaultMongoURI,
			MongoDatabase: DefaultMongoDatabase,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
