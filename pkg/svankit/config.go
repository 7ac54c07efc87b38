package svankit

type Config struct {
	DBPath     string
	ConfigFile string
	Channels   int
	Logger     Logger
	Storage    Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithConfigFile points the service at a YAML configuration file. Values
// from the file fill in whatever the other options left unset.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.ConfigFile = path
	}
}

// WithChannels overrides the channel count the decoder assumes for every
// file the service opens.
func WithChannels(n int) Option {
	return func(c *Config) {
		c.Channels = n
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{}
}
