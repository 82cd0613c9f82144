package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings safe to log or expose to clients.
type Public struct {
	Port          int           `yaml:"port"`
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	JwtTTL        time.Duration `yaml:"jwt_ttl"`
	MaxBatchSize  int           `yaml:"max_batch_size"` // max images per transfer request
	S3            S3            `yaml:"s3"`
	GCInterval    time.Duration `yaml:"gc_interval"`    // orphan object sweep period
	GCSafetyAge   time.Duration `yaml:"gc_safety_age"`  // min object age before it may be reaped
	AllowedOrigin string        `yaml:"allowed_origin"` // browser frontend origin for CORS
}

type S3 struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"` // empty means real AWS; set for minio/localstack
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
	S3Auth S3Auth `yaml:"s3_auth"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type S3Auth struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.MaxBatchSize == 0 {
		c.Public.MaxBatchSize = 20
	}
	if c.Public.GCInterval == 0 {
		c.Public.GCInterval = time.Hour
	}
	if c.Public.GCSafetyAge == 0 {
		c.Public.GCSafetyAge = 30 * time.Minute
	}
}
