// Package config holds connection settings for the document store, the cache
// and the status endpoint. Values are layered: defaults, then an optional
// YAML file, then an optional .env file, then the process environment.
package config

import (
	"net"
	"time"
)

// Environment variables read for the document store. The cache reads none:
// its target comes from defaults or the YAML file.
const (
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBDatabase = "DB_DATABASE"
)

// Config holds runtime settings.
type Config struct {
	DocStore DocStore `yaml:"docstore"`
	Cache    Cache    `yaml:"cache"`
	HTTP     HTTP     `yaml:"http"`
}

// DocStore locates the MongoDB database.
type DocStore struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

// URI returns mongodb://<host>:<port>/<database>.
func (d DocStore) URI() string {
	return "mongodb://" + net.JoinHostPort(d.Host, d.Port) + "/" + d.Database
}

// Cache providers selectable with Cache.Provider.
const (
	CacheRedis     = "redis"
	CacheRistretto = "ristretto"
)

// Cache selects the cache backend and locates the Redis server.
type Cache struct {
	// Provider is "redis" (default) or "ristretto" (in-process, single replica).
	Provider string `yaml:"provider"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// HealthInterval is the ping period; 0 => kvcache default, negative disables.
	HealthInterval time.Duration `yaml:"health_interval"`
}

// HTTP configures the status endpoint of cmd/fmstatus.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.DocStore = DocStore{
		Host:     "localhost",
		Port:     "27017",
		Database: "file_manager",
	}
	c.Cache = Cache{Provider: CacheRedis, Addr: "localhost:6379"}
	c.HTTP = HTTP{Addr: ":5000"}
}
