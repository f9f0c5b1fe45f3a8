package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/graph"
)

var graphCommand = &cli.Command{
	Name:      "graph",
	Usage:     "Render a suite's flow tree as Graphviz DOT",
	ArgsUsage: "<suite>",
	Description: `Each group becomes a cluster and each variant a node. Accepted
variants are drawn bold; the next stage hangs off them.

Examples:
  flowgen graph onboarding/negative | dot -Tsvg > negative.svg
  flowgen graph auth/github --output github.dot`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write DOT to this file instead of stdout",
		},
	},
	Action: runGraph,
}

func runGraph(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one suite name is required")
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}

	name := c.Args().First()
	suite, ok := s.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown suite %q (available: %v)", name, s.registry.Names())
	}

	dot, err := graph.Render(suite.Name, suite.Tree)
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		fmt.Fprint(s.out, dot)
		return nil
	}
	if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	printOK(s.out, "graph %s", output)
	return nil
}
