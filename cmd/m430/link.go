package m430

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gmofishsauce/m430/internal/link"
)

var linkOutput string

var linkCmd = &cobra.Command{
	Use:   "link <dir>",
	Short: "Link every .obj module in a directory into one program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		out := linkOutput
		if out == "" {
			out = viper.GetString("output")
		}

		objects, err := link.LoadDir(dir)
		if err != nil {
			return err
		}
		log.WithField("modules", len(objects)).Debug("loaded object modules")

		res, err := link.Link(objects)
		if err != nil {
			color.Red("link: %v", err)
			return err
		}

		merged := link.Merged(res)

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		if err := link.WriteLinked(f, merged); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}

		fmt.Fprintf(os.Stdout, "%s\n", out)
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVarP(&linkOutput, "output", "o", "", "output object file (default from config, else a.obj)")
}
