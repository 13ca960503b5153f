package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luma/rcon/client"
	"github.com/luma/rcon/cmd/gen"
	"github.com/luma/rcon/internal/env"
)

const (
	exitCodeInvalidArguments = 1
	exitCodeAuthFailure      = 2
)

var (
	// Terminal mode: read commands interactively from stdin.
	terminalMode bool

	// Emit one JSON object per exchange instead of the "> " / "< " pairs.
	jsonOutput bool
)

func init() {
	flags := rootCmd.Flags()

	flags.BoolVarP(&terminalMode, "terminal", "t", false, "enter commands in an interactive terminal")
	flags.BoolVar(&jsonOutput, "json", false, "print each exchange as a JSON object")

	rootCmd.AddCommand(gen.RootCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "rcon <host[:port]> <password> <-t | command...>",
	Short: "Send commands to a game server over RCON",
	Long: `Send commands to a game server over RCON

rcon connects to a Source-engine-derived RCON server (such as a Minecraft
server with enable-rcon=true), authenticates with the given password, and
sends each command in order. With -t it instead reads commands from stdin
until a "\quit" line, end of input, or an interrupt.

The port can be omitted, the default is 25575.

Example 1: rcon localhost:25575 hunter2 'say Hello, world' 'teleport Notch 0 0 0'
Example 2: rcon localhost hunter2 -t
`,
	SilenceErrors: true,

	Args: func(cmd *cobra.Command, args []string) error {
		if terminalMode {
			if len(args) != 2 {
				return errors.New("terminal mode takes exactly a host and a password")
			}
			return nil
		}

		if len(args) < 3 {
			return errors.New("requires a host, a password, and at least one command (or -t)")
		}

		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := env.LoadConfig(context.Background())
		if err != nil {
			return err
		}

		log, err := env.MakeLogger(conf.Debug)
		if err != nil {
			return err
		}
		defer func() {
			_ = log.Sync()
		}()

		host, port, err := parseHostPort(args[0], conf.Port)
		if err != nil {
			return err
		}

		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		c, err := client.Open(host, port, args[1], client.Options{
			Timeout: conf.Timeout,
			Log:     log.Named("client"),
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = c.Close()
		}()

		// On the first interrupt, release the socket so a blocked exchange
		// fails instead of the process dying with the connection open. A
		// second interrupt terminates the process.
		go func() {
			<-ctx.Done()
			_ = c.Close()
			signalStop()
		}()

		if terminalMode {
			err = runTerminal(c, cmd.InOrStdin(), cmd.OutOrStdout(), jsonOutput)
		} else {
			err = runCommands(c, args[2:], cmd.OutOrStdout(), jsonOutput)
		}

		if err != nil && ctx.Err() != nil && interruptedClose(err) {
			// The exchange only failed because the interrupt closed the
			// session; that's an orderly shutdown, not an error.
			return nil
		}

		return err
	},
}

// interruptedClose reports whether err is just the session being torn down
// under our feet. A close before the exchange starts surfaces as
// ErrClosed; a close while a read is blocked surfaces as the net layer's
// ErrClosed on the socket.
func interruptedClose(err error) bool {
	return errors.Is(err, client.ErrClosed) || errors.Is(err, net.ErrClosed)
}

// Execute runs the CLI and exits the process on failure: 2 when the server
// rejected the password, 1 for anything else (including usage errors, for
// which cobra has already printed usage).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, client.ErrAuthFailure) {
			fmt.Fprintln(os.Stderr, "Authentication failure")
			os.Exit(exitCodeAuthFailure)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeInvalidArguments)
	}
}
