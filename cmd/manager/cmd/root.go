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

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"d7y.io/renderfarm/cmd/dependency"
	logger "d7y.io/renderfarm/internal/dflog"
	"d7y.io/renderfarm/manager"
	"d7y.io/renderfarm/manager/config"
)

const (
	managerEnvPrefix = "manager"
)

var (
	// Initialize default manager config
	cfg = config.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "manager",
	Short: "the central manager of the render farm",
	Long: `manager is a long-running process and is mainly responsible
for registering workers, queueing jobs and handing their tasks to workers.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dependency.InitConfig(cmd, managerEnvPrefix, config.DefaultConfigPath, cfg); err != nil {
			return errors.Wrap(err, "init manager config")
		}

		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "validate manager config")
		}

		if err := logger.InitManager(cfg.Verbose, cfg.Console, cfg.LogDir); err != nil {
			return errors.Wrap(err, "init manager logger")
		}

		return runManager()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "the path of configuration file with yaml extension name, default is "+config.DefaultConfigPath)
	flags.Bool("console", cfg.Console, "whether logger output records to the stdout")
	flags.Bool("verbose", cfg.Verbose, "whether logger use debug level")
	flags.String("logDir", cfg.LogDir, "the directory of rotated log files")

	rootCmd.AddCommand(dependency.VersionCmd)
}

func runManager() error {
	// manager config values
	s, _ := yaml.Marshal(cfg)
	logger.Infof("manager configuration:\n%s", string(s))

	svr, err := manager.New(cfg)
	if err != nil {
		return err
	}

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		sig := <-signals
		logger.Infof("receive signal %s, stopping manager", sig)
		svr.Stop()
	}()

	return svr.Serve()
}
