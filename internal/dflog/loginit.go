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

package logger

import (
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

type logInitMeta struct {
	fileName             string
	setSugaredLoggerFunc func(*zap.SugaredLogger)
	setLoggerFunc        func(log *zap.Logger)
}

func InitManager(verbose, console bool, dir string) error {
	if console {
		return createConsoleLogger(verbose)
	}

	logDir := filepath.Join(dir, "manager")

	var meta = []logInitMeta{
		{
			fileName:             CoreLogFileName,
			setSugaredLoggerFunc: SetCoreLogger,
		},
		{
			fileName:             GinLogFileName,
			setSugaredLoggerFunc: SetGinLogger,
		},
		{
			fileName:             GCLogFileName,
			setSugaredLoggerFunc: SetGCLogger,
		},
		{
			fileName:             JobLogFileName,
			setSugaredLoggerFunc: SetJobLogger,
		},
		{
			fileName:      SQLLogFileName,
			setLoggerFunc: SetSQLLogger,
		},
	}

	return createFileLogger(verbose, meta, logDir)
}

func createConsoleLogger(verbose bool) error {
	levels = nil
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	sugar := log.Sugar()
	SetCoreLogger(sugar)
	SetGinLogger(sugar)
	SetGCLogger(sugar)
	SetJobLogger(sugar)
	SetSQLLogger(log)
	levels = append(levels, config.Level)
	return nil
}

func createFileLogger(verbose bool, meta []logInitMeta, logDir string) error {
	levels = nil

	for _, m := range meta {
		log, level, err := CreateLogger(path.Join(logDir, m.fileName), false, verbose)
		if err != nil {
			return err
		}
		if m.setSugaredLoggerFunc != nil {
			m.setSugaredLoggerFunc(log.Sugar())
		} else {
			m.setLoggerFunc(log)
		}

		levels = append(levels, level)
	}
	return nil
}
