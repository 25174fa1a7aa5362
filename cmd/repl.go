package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newReplCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive counting session",
		Long: `Starts an interactive session on a fresh tally. Type help for commands.
When stdin is not a terminal, commands are read line by line, so a script
can be piped in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c.newTallyService()
			if err != nil {
				return err
			}

			session := NewSession(service, cmd.OutOrStdout())
			defer session.Close()

			if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Counting a fresh drawer. Type help for commands, exit to leave.")
				runPrompt(session)
				return nil
			}
			return runLines(session, cmd.InOrStdin())
		},
	}
}

func runPrompt(session *Session) {
	quit := false
	p := prompt.New(
		func(line string) { quit = session.Exec(line) },
		session.Complete,
		prompt.OptionPrefix("tally> "),
		prompt.OptionTitle("cash-tally"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return quit && breakline
		}),
	)
	p.Run()
}

func runLines(session *Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if session.Exec(strings.TrimSpace(scanner.Text())) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
