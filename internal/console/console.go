package console

import (
	"bufio"
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/logger"
	"delivery-route-sim/internal/services"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const help = `Commands:
  lookup <package id> <HH:MM>   status of one package at a time of day
  status <HH:MM>                status of every package at a time of day
  mileage                       miles driven per truck and in total
  help                          show this list
  exit                          leave the console
`

// Console is a line-oriented query loop over a finished simulation. Arguments
// left off a command are prompted for.
type Console struct {
	res *services.Result
	in  *bufio.Scanner
	out io.Writer
	log logger.Logger
}

func New(res *services.Result, in io.Reader, out io.Writer, log logger.Logger) *Console {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Console{res: res, in: bufio.NewScanner(in), out: out, log: log}
}

// Run reads commands until exit, end of input or ctx is cancelled. Bad input
// is answered with a message; only read and write failures end the loop.
func (c *Console) Run(ctx context.Context) error {
	c.printf("%s", help)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := c.prompt("Enter command: ")
		if !ok {
			return c.in.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := strings.ToLower(fields[0]), fields[1:]
		c.log.Debugf("console: command=%s args=%v", cmd, args)

		var err error
		switch cmd {
		case "lookup":
			err = c.lookup(args)
		case "status":
			err = c.status(args)
		case "mileage":
			err = PrintMileage(c.out, c.res)
		case "help":
			c.printf("%s", help)
		case "exit", "quit":
			return nil
		default:
			c.printf("Unknown command %q. Enter 'help' for the list.\n", cmd)
		}

		if errors.Is(err, errEndOfInput) {
			return c.in.Err()
		}
		if err != nil {
			return err
		}
	}
}

var errEndOfInput = errors.New("end of input")

func (c *Console) lookup(args []string) error {
	id, ok := c.arg(args, 0, "Enter package ID: ")
	if !ok {
		return errEndOfInput
	}
	if _, found := c.res.Package(id); !found {
		c.printf("No package found with ID %s.\n", id)
		return nil
	}

	at, ok, err := c.clockArg(args, 1)
	if err != nil || !ok {
		return err
	}

	return PrintLookup(c.out, c.res, id, at)
}

func (c *Console) status(args []string) error {
	at, ok, err := c.clockArg(args, 0)
	if err != nil || !ok {
		return err
	}
	return PrintStatus(c.out, c.res, at)
}

// clockArg resolves a time of day from args[i] or a prompt. ok is false when
// the input was not a valid time; the user has already been told.
func (c *Console) clockArg(args []string, i int) (time.Time, bool, error) {
	raw, ok := c.arg(args, i, "Enter time (HH:MM): ")
	if !ok {
		return time.Time{}, false, errEndOfInput
	}

	at, err := domain.ParseClock(c.res.Day, raw)
	if err != nil {
		c.printf("Invalid time %q. Please enter the time as HH:MM.\n", raw)
		return time.Time{}, false, nil
	}
	return at, true, nil
}

func (c *Console) arg(args []string, i int, question string) (string, bool) {
	if i < len(args) {
		return args[i], true
	}
	return c.prompt(question)
}

func (c *Console) prompt(question string) (string, bool) {
	c.printf("%s", question)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
