package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
	dimColor  = color.New(color.Faint)
)

func printOK(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, a...))
}

func printFail(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", failColor.Sprint("✗"), fmt.Sprintf(format, a...))
}

func printWarn(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", warnColor.Sprint("!"), fmt.Sprintf(format, a...))
}

// newProgressBar reports per-suite progress on w.
func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(infoColor.Sprint("Generating")),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        infoColor.Sprint("█"),
			SaucerHead:    infoColor.Sprint("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

// parseEnvVars parses KEY=VALUE pairs; entries without '=' are ignored.
func parseEnvVars(envs []string) map[string]string {
	result := make(map[string]string)
	for _, e := range envs {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		}
	}
	return result
}
