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

package dependency

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitConfig loads the config file named by the --config flag, or the
// default path when it exists, and overlays environment variables with
// the given prefix.
func InitConfig(cmd *cobra.Command, envPrefix string, defaultPath string, cfg any) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return errors.Wrap(err, "get config flag")
	}

	if cfgFile == "" {
		if _, err := os.Stat(defaultPath); err == nil {
			cfgFile = defaultPath
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config file %s", cfgFile)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if err := viper.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}

	return nil
}
