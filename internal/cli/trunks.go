package cli

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/trunk"
	"github.com/neurite-tools/neurite/pkg/ugx"
)

// trunksCommand creates the trunks command for decomposition inspection.
func (c *CLI) trunksCommand() *cobra.Command {
	var (
		output     string
		resetIndex bool
	)

	cmd := &cobra.Command{
		Use:   "trunks <input>",
		Short: "Decompose a morphology into unbranched trunks",
		Long: `Decompose a morphology into its maximal unbranched paths and print
a summary of each.

With --output, each trunk is additionally written as its own file,
named <base>_trunk<N>.swc. With --reset-index, trunk nodes are
renumbered from 1 instead of keeping their original ids.

Examples:
  neurite trunks neuron.swc
  neurite trunks neuron.swc --output trunks/neuron --reset-index`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrunks(args[0], output, resetIndex)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base path for per-trunk output files")
	cmd.Flags().BoolVar(&resetIndex, "reset-index", false, "renumber trunk nodes from 1")

	return cmd
}

func (c *CLI) runTrunks(input, output string, resetIndex bool) error {
	ns, warns, err := ugx.ReadTreeFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	for _, w := range warns {
		printWarning("%s", w)
	}

	repaired, repairWarns, err := swc.Preprocess(ns)
	if err != nil {
		return err
	}
	for _, w := range repairWarns {
		printWarning("%s", w)
	}

	p := newProgress(c.Logger)
	trunks := trunk.Decompose(repaired, resetIndex)
	parents := trunk.ParentMap(repaired, trunks)
	p.done(fmt.Sprintf("Decomposed %d nodes into %d trunks", len(repaired), len(trunks)))

	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		parent := "root"
		if pid, ok := parents[tid]; ok && pid >= 0 {
			parent = fmt.Sprintf("trunk %d", pid)
		}
		printDetail("trunk %d: %d nodes, parent %s", tid, len(trunks[tid]), parent)
	}

	if output == "" {
		return nil
	}

	base := output
	if base == input {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		path := fmt.Sprintf("%s_trunk%d.swc", base, tid)
		if err := ugx.WriteTreeFile(trunks[tid], path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
