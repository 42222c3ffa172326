package config

// Gateway definition gateway_service YAML structure
type Gateway struct {
	Port     string         `mapstructure:"port"`
	MongoSQL DatabaseConfig `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`

	// ExpirySweepSeconds 掃描過期訊息的間隔（秒）
	ExpirySweepSeconds int `mapstructure:"expiry_sweep_seconds"`
	// LinkPreviewTimeoutSeconds 抓取連結預覽的逾時（秒）
	LinkPreviewTimeoutSeconds int `mapstructure:"link_preview_timeout_seconds"`
	// ClientQueueSize 每條連線的送出緩衝大小
	ClientQueueSize int `mapstructure:"client_queue_size"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
