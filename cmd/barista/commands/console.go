package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/barista/display"
	"github.com/teranos/barista/engine"
	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
	"github.com/teranos/barista/recommend"
	"github.com/teranos/barista/sales"
)

const consolePrompt = "barista> "

const consoleHelp = `Commands:
  suggest <temp> <sweet|bitter> [all]   suggest a drink
  predict [day]                         forecast cups sold (default: next day)
  add <day> <cups>                      record a day of sales
  history [n]                           show the last n rows (default: all)
  menu                                  list the menu
  help                                  show this help
  quit                                  leave the console`

// ConsoleCmd runs an interactive session over one engine
var ConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session for suggestions, forecasts and sales entry",
	Long: `Start an interactive session that keeps one engine open.

Each line is split like a shell command line. Errors are printed and the
session continues.

` + consoleHelp,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	s := &consoleSession{
		engine:  e,
		printer: printer(cmd),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		base:    cmd.Context(),
	}
	return s.run(cmd.InOrStdin())
}

type consoleSession struct {
	engine  *engine.Engine
	printer *display.Printer
	out     io.Writer
	errOut  io.Writer
	base    context.Context
}

func (s *consoleSession) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, consolePrompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		quit, err := s.exec(scanner.Text())
		if err != nil {
			fmt.Fprint(s.errOut, display.ErrorMessage(err))
		}
		if quit {
			return nil
		}
	}
}

// exec runs one console line
func (s *consoleSession) exec(line string) (bool, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return false, errors.NewInvalidArgumentError("cannot parse line: %s", err.Error())
	}
	if len(words) == 0 {
		return false, nil
	}

	ctx := logger.WithRequestID(s.base, uuid.NewString())
	ctx = logger.WithCommand(ctx, "console "+words[0])

	name, rest := strings.ToLower(words[0]), words[1:]
	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, consoleHelp)
		return false, nil
	case "suggest":
		return false, s.suggest(ctx, rest)
	case "predict":
		return false, s.predict(ctx, rest)
	case "add":
		return false, s.add(ctx, rest)
	case "history":
		return false, s.history(ctx, rest)
	case "menu":
		return false, s.printer.Menu(s.engine.Menu())
	default:
		return false, errors.WithHint(
			errors.NewInvalidArgumentError("unknown command %q", name),
			"type help for the list of commands")
	}
}

func (s *consoleSession) suggest(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.NewInvalidArgumentError("usage: suggest <temp> <sweet|bitter> [all]")
	}
	temp, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return errors.NewInvalidArgumentError("temperature %q is not a number", args[0])
	}
	taste, err := recommend.ParseTaste(args[1])
	if err != nil {
		return err
	}
	q := recommend.Query{OutdoorTemperature: temp, Taste: taste}

	if len(args) == 3 {
		if args[2] != "all" {
			return errors.NewInvalidArgumentError("usage: suggest <temp> <sweet|bitter> [all]")
		}
		ranked, err := s.engine.Ranked(ctx, q)
		if err != nil {
			return err
		}
		return s.printer.Ranked(q, ranked)
	}

	suggestion, err := s.engine.Suggest(ctx, q)
	if err != nil {
		return err
	}
	return s.printer.Suggestion(q, suggestion)
}

func (s *consoleSession) predict(ctx context.Context, args []string) error {
	var day int
	var err error
	switch len(args) {
	case 0:
		if day, err = s.engine.NextDayIndex(ctx); err != nil {
			return err
		}
	case 1:
		if day, err = parseInt("day", args[0]); err != nil {
			return err
		}
	default:
		return errors.NewInvalidArgumentError("usage: predict [day]")
	}

	cups, err := s.engine.Predict(ctx, engine.ForecastQuery{DayIndex: day})
	if err != nil {
		return err
	}
	history, err := s.engine.History(ctx)
	if err != nil {
		return err
	}
	return s.printer.Forecast(day, cups, history)
}

func (s *consoleSession) add(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidArgumentError("usage: add <day> <cups>")
	}
	day, err := parseInt("day", args[0])
	if err != nil {
		return err
	}
	cups, err := parseInt("cups", args[1])
	if err != nil {
		return err
	}

	if err := s.engine.AddData(ctx, day, cups); err != nil {
		return err
	}
	recent, err := s.engine.Recent(ctx, recentRows())
	if err != nil {
		return err
	}
	return s.printer.Recorded(sales.Observation{DayIndex: day, CupsSold: cups}, recent)
}

func (s *consoleSession) history(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidArgumentError("usage: history [n]")
	}
	if len(args) == 1 {
		n, err := parseInt("n", args[0])
		if err != nil {
			return err
		}
		recent, err := s.engine.Recent(ctx, n)
		if err != nil {
			return err
		}
		return s.printer.History(recent)
	}

	history, err := s.engine.History(ctx)
	if err != nil {
		return err
	}
	return s.printer.History(history)
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewInvalidArgumentError("%s %q is not an integer", name, value)
	}
	return n, nil
}
