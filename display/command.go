package display

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teranos/barista/errors"
)

// defaultJSON is the configured display.format, applied when --json is absent
var defaultJSON bool

// SetDefaultJSON sets the output mode used when no --json flag is given
func SetDefaultJSON(enabled bool) {
	defaultJSON = enabled
}

// ShouldOutputJSON determines if a command should output JSON based on flags and config
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return defaultJSON
	}

	// A local --json wins over the root's persistent one
	f := cmd.Flags().Lookup("json")
	if f == nil || !f.Changed {
		if root := cmd.Root().PersistentFlags().Lookup("json"); root != nil && root.Changed {
			f = root
		}
	}
	if f != nil && f.Changed {
		enabled, _ := strconv.ParseBool(f.Value.String())
		return enabled
	}

	return defaultJSON
}

// OutputJSON marshals v with MarshalJSON and writes it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v, !isTerminal(w))
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
