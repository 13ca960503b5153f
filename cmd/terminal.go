package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// quitCommand ends an interactive session.
const quitCommand = `\quit`

// commandSender is the slice of client.Client the presentation layer needs.
type commandSender interface {
	SendCommand(command string) (string, error)
}

// runTerminal reads commands from in, one per line, until a quit command,
// end of input, or a failed exchange.
func runTerminal(c commandSender, in io.Reader, out io.Writer, jsonOut bool) error {
	fmt.Fprintf(out, "Authenticated. Type %q to quit.\n", quitCommand)
	fmt.Fprint(out, "> ")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == quitCommand {
			return nil
		}

		response, err := c.SendCommand(line)
		if err != nil {
			return err
		}

		writeResponse(out, jsonOut, line, response)
		fmt.Fprint(out, "> ")
	}

	return scanner.Err()
}

// runCommands sends each command in order, printing the same exchange pair
// the terminal mode produces.
func runCommands(c commandSender, commands []string, out io.Writer, jsonOut bool) error {
	for _, command := range commands {
		if !jsonOut {
			fmt.Fprintln(out, "> "+command)
		}

		response, err := c.SendCommand(command)
		if err != nil {
			return err
		}

		writeResponse(out, jsonOut, command, response)
	}

	return nil
}

func writeResponse(out io.Writer, jsonOut bool, command, response string) {
	if jsonOut {
		line, _ := sjson.Set("{}", "command", command)
		line, _ = sjson.Set(line, "response", response)
		fmt.Fprintln(out, line)
		return
	}

	if response == "" {
		response = "(empty response)"
	}

	fmt.Fprintln(out, "< "+response)
}

// parseHostPort splits the host[:port] argument, falling back to
// defaultPort when no port is given.
func parseHostPort(arg string, defaultPort int) (string, int, error) {
	parts := strings.Split(arg, ":")
	switch len(parts) {
	case 1:
		return parts[0], defaultPort, nil

	case 2:
		port, err := strconv.Atoi(parts[1])
		if err != nil || port < 1 || port > 65535 {
			return "", 0, fmt.Errorf("invalid port %q, want a number between 1 and 65535", parts[1])
		}
		return parts[0], port, nil

	default:
		return "", 0, fmt.Errorf("invalid address %q, want host[:port]", arg)
	}
}
