/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultConfigPath is read when no config file is given.
const DefaultConfigPath = "/etc/renderfarm/manager.yaml"

const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypeMysql    = "mysql"
	DatabaseTypePostgres = "postgres"
)

type Config struct {
	// Base options.
	Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server *ServerConfig `yaml:"server" mapstructure:"server"`

	// Database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Scheduler configuration.
	Scheduler *SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`

	// Worker configuration.
	Worker *WorkerConfig `yaml:"worker" mapstructure:"worker"`

	// JobTypes configuration.
	JobTypes *JobTypesConfig `yaml:"jobTypes" mapstructure:"jobTypes"`

	// Metrics configuration.
	Metrics *MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type Options struct {
	// Console shows log on console.
	Console bool `yaml:"console" mapstructure:"console"`

	// Verbose prints verbose log and sets gin to debug mode.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// LogDir is the directory of rotated log files.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`
}

type ServerConfig struct {
	// Server name.
	Name string `yaml:"name" mapstructure:"name"`

	// REST listen address.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// RequestTimeout bounds every REST request, including lock waits.
	RequestTimeout time.Duration `yaml:"requestTimeout" mapstructure:"requestTimeout"`
}

type DatabaseConfig struct {
	// Type is one of sqlite, mysql or postgres.
	Type string `yaml:"type" mapstructure:"type"`

	// SQLite configuration.
	SQLite *SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"`

	// Mysql configuration.
	Mysql *MysqlConfig `yaml:"mysql" mapstructure:"mysql"`

	// Postgres configuration.
	Postgres *PostgresConfig `yaml:"postgres" mapstructure:"postgres"`

	// Redis configuration, updates are broadcast when it is set.
	Redis *RedisConfig `yaml:"redis" mapstructure:"redis"`
}

type SQLiteConfig struct {
	// Path of the database file, ":memory:" for an in-memory database.
	Path string `yaml:"path" mapstructure:"path"`
}

type MysqlConfig struct {
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Migrate  bool   `yaml:"migrate" mapstructure:"migrate"`
}

type PostgresConfig struct {
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslMode" mapstructure:"sslMode"`
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
	Migrate  bool   `yaml:"migrate" mapstructure:"migrate"`
}

type RedisConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Channel  string `yaml:"channel" mapstructure:"channel"`
}

type SchedulerConfig struct {
	// RetryLimit is the number of requeues a task survives before it fails.
	RetryLimit int `yaml:"retryLimit" mapstructure:"retryLimit"`

	// KeepPriorityOnRequeue keeps the task priority when it is requeued.
	KeepPriorityOnRequeue bool `yaml:"keepPriorityOnRequeue" mapstructure:"keepPriorityOnRequeue"`

	// RequeuePriorityPenalty is subtracted from the priority on requeue
	// when KeepPriorityOnRequeue is false.
	RequeuePriorityPenalty int `yaml:"requeuePriorityPenalty" mapstructure:"requeuePriorityPenalty"`

	// TaskFailAfterSoftFailCount is the number of distinct workers a task
	// fails on before the failure is final. 1 makes every failure final.
	TaskFailAfterSoftFailCount int `yaml:"taskFailAfterSoftFailCount" mapstructure:"taskFailAfterSoftFailCount"`

	// BlocklistThreshold is the number of tasks of one type a worker may fail
	// in a job before it gets no more of them, 0 disables the blocklist.
	BlocklistThreshold int `yaml:"blocklistThreshold" mapstructure:"blocklistThreshold"`

	// TaskTimeout after which a task its worker stopped reporting on fails.
	TaskTimeout time.Duration `yaml:"taskTimeout" mapstructure:"taskTimeout"`

	// TaskCheckInterval is the interval of the task timeout check.
	TaskCheckInterval time.Duration `yaml:"taskCheckInterval" mapstructure:"taskCheckInterval"`
}

type WorkerConfig struct {
	// Timeout after which a silent worker is marked offline.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// CheckInterval is the interval of the worker timeout check.
	CheckInterval time.Duration `yaml:"checkInterval" mapstructure:"checkInterval"`

	// SleepCheckInterval is the interval of applying sleep schedules.
	SleepCheckInterval time.Duration `yaml:"sleepCheckInterval" mapstructure:"sleepCheckInterval"`
}

type JobTypesConfig struct {
	// Dir holds extra job type definitions, files override built-in types.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type MetricsConfig struct {
	// Enable exposes /metrics on the REST server.
	Enable bool `yaml:"enable" mapstructure:"enable"`
}

// New default configuration.
func New() *Config {
	return &Config{
		Server: &ServerConfig{
			Name:           "manager",
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
		},
		Database: &DatabaseConfig{
			Type: DatabaseTypeSQLite,
			SQLite: &SQLiteConfig{
				Path: "renderfarm.sqlite",
			},
			Mysql: &MysqlConfig{
				Port:    3306,
				Migrate: true,
			},
			Postgres: &PostgresConfig{
				Port:     5432,
				SSLMode:  "disable",
				Timezone: "UTC",
				Migrate:  true,
			},
		},
		Scheduler: &SchedulerConfig{
			RetryLimit:                 3,
			KeepPriorityOnRequeue:      true,
			RequeuePriorityPenalty:     10,
			TaskFailAfterSoftFailCount: 3,
			BlocklistThreshold:         3,
			TaskTimeout:                10 * time.Minute,
			TaskCheckInterval:          time.Minute,
		},
		Worker: &WorkerConfig{
			Timeout:            time.Minute,
			CheckInterval:      10 * time.Second,
			SleepCheckInterval: time.Minute,
		},
		JobTypes: &JobTypesConfig{},
		Metrics: &MetricsConfig{
			Enable: true,
		},
	}
}

// Validate config values.
func (cfg *Config) Validate() error {
	if cfg.Server == nil || cfg.Server.Addr == "" {
		return errors.New("server requires parameter addr")
	}

	if cfg.Server.RequestTimeout <= 0 {
		return errors.New("server requires parameter requestTimeout")
	}

	if cfg.Database == nil {
		return errors.New("config requires parameter database")
	}

	switch cfg.Database.Type {
	case DatabaseTypeSQLite:
		if cfg.Database.SQLite == nil || cfg.Database.SQLite.Path == "" {
			return errors.New("sqlite requires parameter path")
		}
	case DatabaseTypeMysql:
		if cfg.Database.Mysql == nil {
			return errors.New("database requires parameter mysql")
		}

		if cfg.Database.Mysql.User == "" {
			return errors.New("mysql requires parameter user")
		}

		if cfg.Database.Mysql.Host == "" {
			return errors.New("mysql requires parameter host")
		}

		if cfg.Database.Mysql.DBName == "" {
			return errors.New("mysql requires parameter dbname")
		}
	case DatabaseTypePostgres:
		if cfg.Database.Postgres == nil {
			return errors.New("database requires parameter postgres")
		}

		if cfg.Database.Postgres.User == "" {
			return errors.New("postgres requires parameter user")
		}

		if cfg.Database.Postgres.Host == "" {
			return errors.New("postgres requires parameter host")
		}

		if cfg.Database.Postgres.DBName == "" {
			return errors.New("postgres requires parameter dbname")
		}
	default:
		return errors.Errorf("unknown database type %q", cfg.Database.Type)
	}

	if cfg.Database.Redis != nil && cfg.Database.Redis.Host != "" && cfg.Database.Redis.Channel == "" {
		return errors.New("redis requires parameter channel")
	}

	if cfg.Scheduler == nil {
		return errors.New("config requires parameter scheduler")
	}

	if cfg.Scheduler.RetryLimit < 0 {
		return errors.New("scheduler retryLimit must not be negative")
	}

	if cfg.Scheduler.RequeuePriorityPenalty < 0 {
		return errors.New("scheduler requeuePriorityPenalty must not be negative")
	}

	if cfg.Scheduler.TaskFailAfterSoftFailCount < 1 {
		return errors.New("scheduler taskFailAfterSoftFailCount must be at least 1")
	}

	if cfg.Scheduler.BlocklistThreshold < 0 {
		return errors.New("scheduler blocklistThreshold must not be negative")
	}

	if cfg.Scheduler.TaskTimeout <= 0 {
		return errors.New("scheduler requires parameter taskTimeout")
	}

	if cfg.Scheduler.TaskCheckInterval <= 0 || cfg.Scheduler.TaskCheckInterval > cfg.Scheduler.TaskTimeout {
		return errors.New("scheduler taskCheckInterval must be greater than 0 and not exceed taskTimeout")
	}

	if cfg.Worker == nil {
		return errors.New("config requires parameter worker")
	}

	if cfg.Worker.Timeout <= 0 {
		return errors.New("worker requires parameter timeout")
	}

	if cfg.Worker.CheckInterval <= 0 || cfg.Worker.CheckInterval > cfg.Worker.Timeout {
		return errors.New("worker checkInterval must be greater than 0 and not exceed timeout")
	}

	if cfg.Worker.SleepCheckInterval <= 0 {
		return errors.New("worker requires parameter sleepCheckInterval")
	}

	return nil
}
