// kleene validates transition labels and reduces transition graphs to regular
// expressions.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	u "github.com/araddon/gou"
	"github.com/joho/godotenv"
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/geange/kleene"
)

const (
	pSteps       = "steps"
	pFormat      = "format"
	pFormatShort = "f"
	pAlphabet    = "alphabet"
)

func init() {
	// read .env
	_ = godotenv.Load()
}

func main() {
	ctx := context.Background()

	err := newRootCmd(ctx, os.Stdout).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	cfg *kleene.Config
	out io.Writer
}

func newRootCmd(ctx context.Context, out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use: "kleene",
		Long: strings.Trim(dedent.Dedent(`
			kleene converts transition graphs into regular expressions by state
			elimination.

			Graphs are read from YAML scripts:

			  alphabet: a, b
			  states:
			    - {name: s, kind: start, x: 50, y: 50}
			    - {name: q, label: "1", x: 300, y: 250}
			    - {name: f, kind: final, x: 400, y: 100}
			  transitions:
			    - {from: s, to: q, label: a+b}
			    - {from: q, to: f, label: a}

			Example:
			$ kleene reduce graph.yaml --steps

			Environment: KLEENE_ALPHABET, KLEENE_LOG_LEVEL, KLEENE_STATE_SPACING.
		`), "\n"),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := kleene.LoadConfig(ctx)
			if err != nil {
				return err
			}
			u.SetupLogging(cfg.LogLevel)
			u.SetColorIfTerminal()
			c.cfg = cfg
			return nil
		},
	}
	rootCmd.SetOut(out)

	validateCmd := &cobra.Command{
		Use:   "validate LABEL...",
		Short: "Normalize labels and check them against the label grammar",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.validate,
	}
	validateCmd.Flags().String(pAlphabet, "",
		"Comma separated alphabet, overrides KLEENE_ALPHABET")
	rootCmd.AddCommand(validateCmd)

	reduceCmd := &cobra.Command{
		Use:   "reduce SCRIPT",
		Short: "Reduce a graph to a regular expression",
		Args:  cobra.ExactArgs(1),
		RunE:  c.reduce,
	}
	reduceCmd.Flags().Bool(pSteps, false, "Print every reduction step")
	rootCmd.AddCommand(reduceCmd)

	exportCmd := &cobra.Command{
		Use:   "export SCRIPT",
		Short: "Print a graph as XML or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE:  c.export,
	}
	exportCmd.Flags().StringP(pFormat, pFormatShort, "xml", "Output format: xml or dot")
	rootCmd.AddCommand(exportCmd)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Reduce the sample graph",
		Args:  cobra.NoArgs,
		RunE:  c.demo,
	}
	demoCmd.Flags().Bool(pSteps, false, "Print every reduction step")
	rootCmd.AddCommand(demoCmd)

	return rootCmd
}

func (c *cli) validate(cmd *cobra.Command, args []string) error {
	text := c.cfg.Alphabet
	if flag, _ := cmd.Flags().GetString(pAlphabet); flag != "" {
		text = flag
	}
	alpha, err := kleene.ParseAlphabet(text)
	if err != nil {
		return err
	}

	invalid := 0
	for _, label := range args {
		normalized := kleene.Normalize(label, alpha)
		status := "ok"
		if !kleene.IsRegEx(normalized, alpha) {
			status = "invalid"
			invalid++
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\n", label, normalized, status)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d labels are invalid", invalid, len(args))
	}
	return nil
}

func (c *cli) load(path string) (*kleene.Session, error) {
	opts, err := c.cfg.Options()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadScript(f, opts...)
}

func (c *cli) reduce(cmd *cobra.Command, args []string) error {
	s, err := c.load(args[0])
	if err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetBool(pSteps)
	return c.run(s, steps)
}

func (c *cli) demo(cmd *cobra.Command, _ []string) error {
	s := kleene.NewSession()
	(&kleene.Automata{}).MakeSample().Clone(s.Automaton())
	steps, _ := cmd.Flags().GetBool(pSteps)
	return c.run(s, steps)
}

func (c *cli) run(s *kleene.Session, steps bool) error {
	if err := s.StartConversion(); err != nil {
		var verr *kleene.ValidationError
		if errors.As(err, &verr) {
			for _, label := range verr.Labels {
				fmt.Fprintf(c.out, "invalid label %q\n", label)
			}
		}
		return err
	}

	var options []kleene.RunOption
	if steps {
		options = append(options, kleene.WithStepObserver(func(step kleene.Step, a *kleene.Automaton) {
			fmt.Fprintf(c.out, "%s: %d states, %d transitions\n",
				step, a.GetNumStates(), a.GetNumTransitions())
			for _, t := range a.Transitions() {
				fmt.Fprintf(c.out, "\t%d -> %d\t%s\n", t.From, t.To, t.Label)
			}
		}))
	}

	completion, err := s.Run(options...)
	if err != nil {
		return err
	}
	if completion.Empty {
		fmt.Fprintln(c.out, "empty language")
		return nil
	}
	fmt.Fprintln(c.out, completion.Expression)
	return nil
}

func (c *cli) export(cmd *cobra.Command, args []string) error {
	s, err := c.load(args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString(pFormat)
	switch format {
	case "xml":
		err = kleene.WriteXML(c.out, s.Automaton())
	case "dot":
		err = kleene.WriteDOT(c.out, s.Automaton())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out)
	return nil
}
