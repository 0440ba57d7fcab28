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

package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"

	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager/config"
	"d7y.io/renderfarm/manager/models"
	pkgredis "d7y.io/renderfarm/pkg/redis"
)

type Database struct {
	DB  *gorm.DB
	RDB redis.UniversalClient
}

func New(cfg *config.Config) (*Database, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Type {
	case config.DatabaseTypeSQLite:
		db, err = newSQLite(cfg)
	case config.DatabaseTypeMysql:
		db, err = newMyqsl(cfg)
	case config.DatabaseTypePostgres:
		db, err = newPostgres(cfg)
	default:
		return nil, fmt.Errorf("invalid database type %s", cfg.Database.Type)
	}
	if err != nil {
		logger.Errorf("%s: %s", cfg.Database.Type, err.Error())
		return nil, err
	}

	var rdb redis.UniversalClient
	if redisCfg := cfg.Database.Redis; redisCfg != nil && redisCfg.Host != "" {
		rdb, err = pkgredis.NewRedis(&redis.UniversalOptions{
			Addrs:    []string{fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port)},
			DB:       redisCfg.DB,
			Password: redisCfg.Password,
		})
		if err != nil {
			logger.Errorf("redis: %s", err.Error())
			return nil, err
		}
	}

	return &Database{
		DB:  db,
		RDB: rdb,
	}, nil
}

// Ping checks the database and, when configured, the redis connection.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return errors.Wrap(err, "ping database")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping database")
	}

	if d.RDB != nil {
		if err := d.RDB.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "ping redis")
		}
	}

	return nil
}

// newLogger returns the gorm logger writing to the sql log.
func newLogger(verbose bool) gormlogger.Interface {
	logLevel := gormlogger.Info
	if !verbose {
		logLevel = gormlogger.Warn
	}

	return zapgorm2.New(logger.SQLLogger).LogMode(logLevel)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.WorkerCluster{},
		&models.Worker{},
		&models.Job{},
		&models.Task{},
	)
}
