package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphite-graph/graphite-graph/internal/cli/ui"
	"github.com/graphite-graph/graphite-graph/internal/compiler/callspec"
	"github.com/graphite-graph/graphite-graph/internal/compiler/stdlib"
)

// NewFunctionsCommand creates the functions command
func NewFunctionsCommand() *cobra.Command {
	var generators bool

	cmd := &cobra.Command{
		Use:   "functions [name]",
		Short: "List the supported Graphite functions",
		Long: `List every function the compiler knows, in nesting order, or describe one.

Functions apply innermost-first by ascending priority. Argument tags read
<type><modifier>: types are - verbatim, " string, # numeric, ^ boolean and
! flag; modifiers are - one argument, ? optional, * variadic and < placed
before the series.`,
		Example: `  # Everything, lowest priority first
  graphite-graph functions

  # One function, in any spelling
  graphite-graph functions alias_by_node`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := stdlib.Default()
			if len(args) == 1 {
				return describeFunction(cmd, reg, args[0])
			}
			listFunctions(cmd, reg, generators)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generators, "generators", false, "Only list functions that produce a series")

	return cmd
}

func listFunctions(cmd *cobra.Command, reg *stdlib.Registry, generatorsOnly bool) {
	specs := make([]*callspec.CallSpec, 0, reg.Len())
	for _, name := range reg.Names() {
		spec, _ := reg.SpecFor(name)
		if generatorsOnly && !spec.IsGenerator() {
			continue
		}
		specs = append(specs, spec)
	}
	callspec.SortByPriority(specs)

	aliases := aliasesByFunction(reg)
	table := ui.NewTable(cmd.OutOrStdout(), color.NoColor, "Function", "Priority", "Arguments", "Flags", "Aliases")
	for _, spec := range specs {
		table.AddRow(
			spec.Name(),
			strconv.Itoa(spec.Priority()),
			strings.Join(spec.Tags(), " "),
			strings.Join(flags(spec), ","),
			strings.Join(aliases[spec.Name()], ", "),
		)
	}
	table.Render()
}

func describeFunction(cmd *cobra.Command, reg *stdlib.Registry, name string) error {
	canonical, ok := reg.Canonicalize(name)
	if !ok {
		fmt.Fprint(cmd.ErrOrStderr(), ui.UnknownFunctionError(name, reg.Suggest(name), color.NoColor))
		return fmt.Errorf("unknown function %q", name)
	}
	spec, _ := reg.SpecFor(canonical)

	args := make([]string, 0, len(spec.Signature()))
	for _, arg := range spec.Signature() {
		args = append(args, fmt.Sprintf("%s (%s)", arg.Tag(), arg))
	}

	kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
	kv.AddRow("Name", spec.Name())
	kv.AddRow("Priority", strconv.Itoa(spec.Priority()))
	kv.AddRow("Arguments", orNone(strings.Join(args, ", ")))
	kv.AddRow("Flags", orNone(strings.Join(flags(spec), ", ")))
	kv.AddRow("Aliases", orNone(strings.Join(aliasesByFunction(reg)[canonical], ", ")))
	kv.AddRow("Usage", usage(spec))
	kv.Render()
	return nil
}

// aliasesByFunction inverts the alias table, each list sorted
func aliasesByFunction(reg *stdlib.Registry) map[string][]string {
	out := make(map[string][]string)
	for alias, canonical := range reg.Aliases() {
		out[canonical] = append(out[canonical], alias)
	}
	for _, list := range out {
		sort.Strings(list)
	}
	return out
}

func flags(spec *callspec.CallSpec) []string {
	var out []string
	if spec.IsAlias() {
		out = append(out, "alias")
	}
	if spec.IsGenerator() {
		out = append(out, "generator")
	}
	return out
}

// usage renders a metric key line that switches the function on
func usage(spec *callspec.CallSpec) string {
	if !spec.TakesArgs() {
		return spec.Name() + ": true"
	}
	placeholders := make([]string, 0, len(spec.Signature()))
	for _, arg := range spec.Signature() {
		placeholders = append(placeholders, "<"+arg.Type.String()+">")
	}
	return spec.Name() + ": " + strings.Join(placeholders, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
