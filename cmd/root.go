package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ecobasket/ecobasket/internal/utils"
	"github.com/ecobasket/ecobasket/pkg/browse"
)

var cfgFile string

const (
	LOGO = `	                    _                  _           _
	  ___   ___   ___  | |__    __ _  ___ | | __  ___ | |_
	 / _ \ / __| / _ \ | '_ \  / _` + "`" + ` |/ __|| |/ / / _ \| __|
	|  __/| (__ | (_) || |_) || (_| |\__ \|   < |  __/| |_
	 \___| \___| \___/ |_.__/  \__,_||___/|_|\_\ \___| \__|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecobasket",
	Short: "A sustainable shopping helper for your command line.",
	Long: LOGO + `ecobasket browses the Open Food Facts catalog, shows eco-scored product picks, and keeps your personal shopping list, right from your command line.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecobasket.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".ecobasket")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.ecobasket.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("catalog.country", "")
	viper.SetDefault("catalog.contact", "")
	viper.SetDefault("categories", browse.DefaultCategories)
	viper.SetDefault("dbpath", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
