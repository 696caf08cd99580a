package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/graphite-graph/graphite-graph/internal/cli/ui"
	"github.com/graphite-graph/graphite-graph/internal/compiler/codegen"
	"github.com/graphite-graph/graphite-graph/internal/loader"
)

const defaultDefinitionFile = "graph.yaml"

// initAnswers are the values a scaffolded definition is built from
type initAnswers struct {
	Title  string `survey:"title"`
	Prefix string `survey:"prefix"`
	Metric string `survey:"metric"`
}

func defaultInitAnswers() initAnswers {
	return initAnswers{
		Title:  "Server Load",
		Prefix: "servers.web1",
		Metric: "load",
	}
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Scaffold a graph definition file",
		Long: `Write a starter graph definition with a named prefix, an abstract template
and one metric that extends it. The file is compiled once to check it.`,
		Example: `  # Answer a few questions, write graph.yaml
  graphite-graph init

  # Take the defaults without prompting
  graphite-graph init load.yaml --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDefinitionFile
			if len(args) == 1 {
				path = args[0]
			}

			if format, err := loader.FormatFor(path); err != nil || format != loader.FormatYAML {
				return fmt.Errorf("init writes YAML; use a .yaml or .yml file name, got %s", path)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			answers := defaultInitAnswers()
			if !yes {
				if err := askInitQuestions(&answers); err != nil {
					return err
				}
			}

			return writeDefinition(cmd, path, answers)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Use default answers without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func askInitQuestions(answers *initAnswers) error {
	defaults := *answers
	questions := []*survey.Question{
		{
			Name:     "title",
			Prompt:   &survey.Input{Message: "Graph title:", Default: defaults.Title},
			Validate: survey.Required,
		},
		{
			Name:   "prefix",
			Prompt: &survey.Input{Message: "Series prefix (blank for none):", Default: defaults.Prefix},
		},
		{
			Name:     "metric",
			Prompt:   &survey.Input{Message: "First metric name:", Default: defaults.Metric},
			Validate: survey.ComposeValidators(survey.Required, validateMetricName),
		},
	}
	return survey.Ask(questions, answers)
}

func validateMetricName(ans interface{}) error {
	name, _ := ans.(string)
	if strings.HasPrefix(name, ":") {
		return fmt.Errorf("metric names cannot start with ':'")
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("metric names cannot contain whitespace")
	}
	switch name {
	case "title", "base", "hosts":
		return fmt.Errorf("%q is used by the scaffold itself", name)
	}
	return nil
}

// scaffold renders the starter definition. Key order is part of the output,
// so the document is built as nodes rather than from a map.
func scaffold(a initAnswers) ([]byte, error) {
	if err := validateMetricName(a.Metric); err != nil {
		return nil, err
	}

	doc := mapping(
		"title", scalar(a.Title),
		"base", mapping(
			":is", scalar("abstract"),
			"cactiStyle", plain("true"),
			"lineWidth", plain("2"),
		),
	)

	metric := mapping(":extends", scalar("base"))
	if a.Prefix != "" {
		doc.Content = append(doc.Content,
			scalar("hosts"), mapping(
				":is", scalar("prefix"),
				"prefix", scalar(a.Prefix),
			))
		metric.Content = append(metric.Content, scalar(":prefix"), scalar("hosts"))
	}
	doc.Content = append(doc.Content, scalar(a.Metric), metric)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode definition: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDefinition(cmd *cobra.Command, path string, a initAnswers) error {
	data, err := scaffold(a)
	if err != nil {
		return err
	}

	// check the scaffold compiles before touching the file system
	graph, err := loader.Parse(data, loader.FormatYAML, path, loader.Options{})
	if err != nil {
		return fmt.Errorf("scaffold does not load: %w", err)
	}
	gen := codegen.NewGenerator(nil)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	ui.WriteSuccess(out, "wrote "+path, color.NoColor)
	for _, m := range graph.Metrics {
		target, err := gen.Generate(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s\t%s\n", m.Name, target)
	}
	return nil
}

// scalar is a string node; the encoder quotes it when it would read back as
// another type. Reserved keys are always quoted.
func scalar(value string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if strings.HasPrefix(value, ":") {
		node.Style = yaml.DoubleQuotedStyle
	}
	return node
}

// plain is an untagged node whose type the reader infers
func plain(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// mapping builds a mapping node from alternating keys and value nodes
func mapping(pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		node.Content = append(node.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return node
}
