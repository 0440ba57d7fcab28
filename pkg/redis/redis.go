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

package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	logger "d7y.io/renderfarm/internal/dflog"
)

const (
	// KeySeparator is the separator of redis key.
	KeySeparator = ":"

	// ManagerName prefixes every key and channel of the manager.
	ManagerName = "manager"
)

const (
	// WorkersNamespace prefix of workers namespace.
	WorkersNamespace = "workers"

	// WorkerClustersNamespace prefix of worker clusters namespace.
	WorkerClustersNamespace = "worker-clusters"

	// JobsNamespace prefix of jobs namespace.
	JobsNamespace = "jobs"

	// TasksNamespace prefix of tasks namespace.
	TasksNamespace = "tasks"
)

// NewRedis returns a new redis client.
func NewRedis(cfg *redis.UniversalOptions) (redis.UniversalClient, error) {
	redis.SetLogger(&redisLogger{})
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		MasterName: cfg.MasterName,
		DB:         cfg.DB,
		Username:   cfg.Username,
		Password:   cfg.Password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// IsEnabled check redis is enabled.
func IsEnabled(addrs []string) bool {
	return len(addrs) != 0
}

// MakeNamespaceKeyInManager make namespace key in manager.
func MakeNamespaceKeyInManager(namespace string) string {
	return fmt.Sprintf("%s%s%s", ManagerName, KeySeparator, namespace)
}

// MakeKeyInManager make key in manager.
func MakeKeyInManager(namespace, id string) string {
	return fmt.Sprintf("%s%s%s", MakeNamespaceKeyInManager(namespace), KeySeparator, id)
}

// MakeChannelInManager make the pub/sub channel of a namespace under a
// channel prefix.
func MakeChannelInManager(prefix, namespace string) string {
	return MakeKeyInManager(prefix, namespace)
}

type redisLogger struct{}

func (rl *redisLogger) Printf(ctx context.Context, format string, v ...any) {
	logger.CoreLogger.Infof(format, v...)
}
