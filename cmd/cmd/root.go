// Copyright 2026 Dhanush Mallu
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
)

// Version is set by main from the release ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "polyext",
	Short: "Ensemble NER for polymer science literature",
	Long: `Polyext extracts polymers, materials, properties, values, units, and
symbols from scientific text by voting across an ensemble of NER models.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.polyext.yaml)")
	rootCmd.PersistentFlags().String("api-url", "http://0.0.0.0:11500", "address the API server listens on")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("vocab-dir", "", "directory of per-model vocab.txt files")

	mustBindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	mustBindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBindPFlag("vocab_dir", rootCmd.PersistentFlags().Lookup("vocab-dir"))
}

// mustBindPFlag panics on bind errors, which only happen on programmer
// error (a flag name typo).
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", key, err))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".polyext")
		}
	}

	viper.SetDefault("overlap_sentences", 1)
	viper.SetDefault("gazetteer", true)

	viper.SetEnvPrefix("POLYEXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the configured level.
func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(viper.GetString("log_level")); err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("building logger: %v", err))
	}
	return logger
}

// configFromViper assembles the service config from flags, environment,
// and config file.
func configFromViper() extractor.Config {
	return extractor.Config{
		ApiUrl:               viper.GetString("api_url"),
		Models:               viper.GetStringMapString("models"),
		VocabDir:             viper.GetString("vocab_dir"),
		MaxWindowTokens:      viper.GetInt("max_window_tokens"),
		OverlapSentences:     viper.GetInt("overlap_sentences"),
		MaxConcurrentWindows: viper.GetInt("max_concurrent_windows"),
		ModelTimeout:         viper.GetString("model_timeout"),
		CacheTTL:             viper.GetString("cache_ttl"),
		KeepAlive:            viper.GetString("keep_alive"),
		Preload:              viper.GetStringSlice("preload"),
		Gazetteer:            viper.GetBool("gazetteer"),
	}
}
