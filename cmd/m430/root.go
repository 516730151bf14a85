// Package m430 implements the m430 command-line front end: a cobra
// command tree wrapping internal/asm and internal/link.
package m430

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	log     = logrus.New()
)

// RootCmd is the base m430 command.
var RootCmd = &cobra.Command{
	Use:   "m430",
	Short: "A two-pass assembler and linker for a simplified MSP430 subset",
	Long: `m430 assembles and links programs written against a simplified,
16-bit MSP430 instruction subset: three fixed sections (.text, .data,
.bss), a textual COFF-like object format, and a static linker that
resolves .def/.ref across modules.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}
		color.NoColor = !viper.GetBool("color")
	},
}

// Execute runs the command tree. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .m430.yaml)")
	RootCmd.PersistentFlags().Bool("verbose", false, "log pass timing and object counts")
	RootCmd.PersistentFlags().Bool("color", true, "colorize diagnostics")
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("color", RootCmd.PersistentFlags().Lookup("color"))

	RootCmd.AddCommand(assembleCmd, linkCmd, dumpCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig loads .m430.yaml from the working directory or $HOME, and
// M430_* environment variables. Absence of a config file is not an
// error — every key has a usable default.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".m430")
	}

	viper.SetEnvPrefix("M430")
	viper.AutomaticEnv()
	viper.SetDefault("output", "a.obj")
	viper.SetDefault("color", true)
	viper.SetDefault("verbose", false)

	_ = viper.ReadInConfig()
}
