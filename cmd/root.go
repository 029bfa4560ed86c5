package cmd

import (
	"log"

	"github.com/spigell/hh-collector/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-collector"
)

type Config struct {
	Database  *store.Config `mapstructure:"database"`
	Fetch     *FetchConfig  `mapstructure:"fetch"`
	UserAgent string        `mapstructure:"user-agent"`
	TokenFile string        `mapstructure:"token-file"`
}

type FetchConfig struct {
	RandomCount int `mapstructure:"random-count"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-collector is a simple cli for collecting vacancies from hh.ru into PostgreSQL and querying them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database.password-file", "HH_COLLECTOR_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding HH_COLLECTOR_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-collector.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
