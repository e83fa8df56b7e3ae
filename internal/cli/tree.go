package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/parser"
	"github.com/matzehuels/gnparser/pkg/render/treeviz"
)

type treeOpts struct {
	code      string
	format    string
	output    string
	detailed  bool
	diaereses bool
}

func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <name>",
		Short: "Draw the parse tree of a name",
		Long: `Draw the parse tree of a name as Graphviz DOT, SVG or PNG.

Nodes whose reading depends on the nomenclatural code are drawn dashed
until a code is given with --code.`,
		Example: `  gnparser tree "Aus (Bus) cus Smith, 1999"
  gnparser tree -c zoological -t svg -o tree.svg "Aus (Bus) cus"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("code") {
				opts.code = c.Config.Parse.Code
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.code, "code", "c", "", "nomenclatural code")
	f.StringVarP(&opts.format, "type", "t", "dot", "output type: dot, svg, png")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&opts.detailed, "detailed", false, "show normalized values, interpretations and offsets")
	f.BoolVar(&opts.diaereses, "diaereses", false, "keep diaereses")
	_ = cmd.RegisterFlagCompletionFunc("type", fixedCompletion("dot", "svg", "png"))
	return cmd
}

func (c *CLI) runTree(ctx context.Context, name string, opts treeOpts) error {
	logger := loggerFromContext(ctx)

	tf, err := treeviz.ParseFormat(opts.format)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid tree type %q", opts.format)
	}
	code, err := errors.ValidateCode(opts.code)
	if err != nil {
		return err
	}

	p, err := parser.New(parser.Options{Code: code, PreserveDiaereses: opts.diaereses})
	if err != nil {
		return err
	}
	res := p.Parse(name)
	if !res.Parsed {
		reason := "not a scientific name"
		if res.Failure != nil {
			reason = res.Failure.Error()
		}
		return errors.New(errors.ErrCodeInvalidInput, "cannot parse %q: %s", name, reason)
	}
	for _, w := range res.Warnings {
		logger.Debug("quality warning", "quality", w.Quality, "warning", w.Message)
	}

	data, err := treeviz.Render(treeviz.ToDOT(res.Tree, treeviz.Options{Detailed: opts.detailed}), tf)
	if err != nil {
		return err
	}

	if opts.output == "" || opts.output == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", tf)
	printFile(opts.output)
	return nil
}
