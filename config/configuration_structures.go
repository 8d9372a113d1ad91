package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

type TTL struct {
	// S3AndRedis : срок жизни pre-signed URL и записей в кэше (секунды)
	S3AndRedis int `yaml:"s3_and_redis"`
	// ShareDefaultDays : срок жизни публичной ссылки по умолчанию (дни)
	ShareDefaultDays int `yaml:"share_default_days"`
	// ShareMaxDays : максимальный срок жизни публичной ссылки (дни)
	ShareMaxDays int `yaml:"share_max_days"`
}

type SweepConfig struct {
	// Interval : период фонового обхода очереди на удаление блобов
	Interval string `yaml:"interval"`
	// BatchSize : сколько записей очереди обрабатывается за один цикл
	BatchSize int `yaml:"batch_size"`
}
