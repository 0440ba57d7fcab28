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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"d7y.io/renderfarm/manager/config"
)

func newSQLite(cfg *config.Config) (*gorm.DB, error) {
	// Connect to sqlite.
	db, err := gorm.Open(sqlite.Open(cfg.Database.SQLite.Path), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newLogger(cfg.Verbose),
	})
	if err != nil {
		return nil, err
	}

	// Sqlite serializes writers, and every connection to ":memory:" opens
	// its own database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	// Run migration.
	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
