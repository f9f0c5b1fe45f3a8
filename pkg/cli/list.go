package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/expander"
)

var listCommand = &cli.Command{
	Name:   "list",
	Usage:  "List available suites with their size",
	Action: runList,
}

func runList(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}

	all := s.registry.All()
	fmt.Fprintf(s.out, "%-24s %6s %6s %6s  %s\n", "SUITE", "GROUPS", "STAGES", "UNITS", "SCRIPT")
	for _, st := range all {
		fmt.Fprintf(s.out, "%-24s %6d %6d %6d  %s\n",
			st.Name,
			len(st.Tree.Groups),
			st.Tree.StageCount(),
			expander.Count(st.Tree),
			dimColor.Sprint(s.rel(s.scriptPath(st))))
	}
	return nil
}
