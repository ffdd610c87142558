package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/ugx"
)

// convertCommand creates the convert command for format translation.
func (c *CLI) convertCommand() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a morphology between the text and XML grid formats",
		Long: `Convert a morphology between formats.

The formats are inferred from the file extensions: .swc for the text
format, .ugx for the XML grid format. Converting a file to its own
format normalizes it (sorted ids, canonical whitespace).

Examples:
  neurite convert neuron.swc neuron.ugx
  neurite convert neuron.ugx neuron.swc
  neurite convert --repair broken.swc fixed.swc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(args[0], args[1], repair)
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "repair topology (soma consolidation, topological sort) before writing")

	return cmd
}

func (c *CLI) runConvert(input, output string, repair bool) error {
	p := newProgress(c.Logger)

	ns, warns, err := ugx.ReadTreeFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	for _, w := range warns {
		printWarning("%s", w)
	}

	if repair {
		repaired, repairWarns, err := swc.Preprocess(ns)
		if err != nil {
			return fmt.Errorf("repair %s: %w", input, err)
		}
		for _, w := range repairWarns {
			printWarning("%s", w)
		}
		ns = repaired
	}

	if err := ugx.WriteTreeFile(ns, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	p.done(fmt.Sprintf("Converted %d nodes", len(ns)))
	printFile(output)
	return nil
}
