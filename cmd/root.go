package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════╗",
		"║   ┌┬┐┌─┐┌┬┐┌─┐┌─┐┬ ┬┌┐┌┌┬┐┬ ┬                    ║",
		"║    ││├─┤ │ ├─┤└─┐└┬┘│││ │ ├─┤                    ║",
		"║   ─┴┘┴ ┴ ┴ ┴ ┴└─┘ ┴ ┘└┘ ┴ ┴ ┴                    ║",
		"║                                                  ║",
		"║     Synthetic rows for declared record schemas   ║",
		"╚══════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("            ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "datasynth",
	Short: "Generate synthetic data rows from record definitions",
	Long: `
datasynth generates synthetic rows that conform to declared record types:
field kinds, bounds, lengths, choices and cross-record relations.

Generators are picked per field by an ordered rule pipeline (overrides,
metadata match, storage type names). Referenced fields draw from bounded
pools so relations stay consistent, and noise can be injected to exercise
downstream validation.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("datasynth version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./datasynth.config.yaml)")
	rootCmd.PersistentFlags().StringP("definition", "d", "", "record definition file (default is ./datasynth.records.yaml)")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed; 0 seeds from the clock")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "Log field plans and pool fills")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	viper.BindPFlag("definition", rootCmd.PersistentFlags().Lookup("definition"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(previewCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("datasynth.config")
	}

	viper.SetEnvPrefix("DATASYNTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			color.Yellow("⚠️  Could not read config %s: %v", cfgFile, err)
		}
	}
}
