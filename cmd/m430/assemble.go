package m430

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gmofishsauce/m430/internal/asm"
)

var assembleOutput string

var assembleCmd = &cobra.Command{
	Use:   "assemble <input.asm>",
	Short: "Assemble a source file into a textual object module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		out := assembleOutput
		if out == "" {
			out = viper.GetString("output")
		}

		src, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}

		start := time.Now()
		res, err := asm.Assemble(string(src))
		if err != nil {
			color.Red("assemble: %v", err)
			return err
		}
		log.WithFields(logrus.Fields{
			"input":        input,
			"text_words":   len(res.Object.Text),
			"data_words":   len(res.Object.Data),
			"elapsed":      time.Since(start),
			"export_count": len(res.Object.Exports.Names()),
		}).Debug("assembled")

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		if err := asm.WriteObject(f, res.Object); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}

		fmt.Fprintf(os.Stdout, "%s\n", out)
		return nil
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "output object file (default from config, else a.obj)")
}
