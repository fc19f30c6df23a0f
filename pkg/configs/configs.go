package configs

// PostgresConfig holds connection settings for the primary store.
type PostgresConfig struct {
	Host               string     `mapstructure:"host" validate:"required"`
	Port               int        `mapstructure:"port" validate:"required"`
	DbName             string     `mapstructure:"db_name" validate:"required"`
	Auth               AuthConfig `mapstructure:"auth" validate:"required"`
	MaxOpenConnection  int        `mapstructure:"max_open_connection"`
	MaxIdealConnection int        `mapstructure:"max_ideal_connection"`
	SslMode            string     `mapstructure:"ssl_mode"`
}

// AuthConfig is a user/password pair.
type AuthConfig struct {
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// RedisConfig holds connection settings for the cache.
type RedisConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}
