package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"

	"cash-tally/app"
	"cash-tally/events"
)

const sessionHelp = `Commands:
  set ID QTY      set the count for a denomination (id or label, e.g. set 0.25 3)
  float AMOUNT    set the amount kept in the till
  reset           clear every count (the float is kept)
  show            print the full tally
  total           print grand total, float and bank amount
  history [N]     list the last N edits (all when N is omitted)
  history since V list the edits made after version V
  check           replay the edit history and compare it with the tally
  denominations   list denominations
  help            show this help
  exit, quit      leave the session`

// Session interprets REPL lines against a tally. It prints a one-line
// summary every time the tally changes.
type Session struct {
	service     *app.TallyService
	out         io.Writer
	unsubscribe func()
}

func NewSession(service *app.TallyService, out io.Writer) *Session {
	s := &Session{service: service, out: out}
	s.unsubscribe = service.Subscribe(s.onChange)
	return s
}

func (s *Session) Close() {
	s.unsubscribe()
}

func (s *Session) onChange(event events.Event) {
	report := s.service.Report()
	switch e := event.(type) {
	case events.QuantitySetEvent:
		d, _ := s.service.Lookup(string(e.DenominationID))
		fmt.Fprintf(s.out, "%s x %d = %s | ", d.Label, e.Quantity, s.service.FormatCurrency(s.service.Subtotal(e.DenominationID)))
	case events.FloatAmountSetEvent:
		fmt.Fprintf(s.out, "float %s | ", s.service.FormatCurrency(e.Amount))
	case events.TallyResetEvent:
		fmt.Fprint(s.out, "cleared | ")
	}
	fmt.Fprintf(s.out, "total %s | bank %s\n", report.GrandTotalText, report.BankAmountText)
}

// Exec runs one line. It returns true when the session should end.
func (s *Session) Exec(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	var err error
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
	case "set":
		err = s.set(fields[1:])
	case "float":
		if len(fields) < 2 {
			err = fmt.Errorf("usage: float AMOUNT")
			break
		}
		err = s.service.SetFloatAmount(app.SetFloatAmountCommand{Input: strings.Join(fields[1:], " ")})
	case "reset", "clear":
		err = s.service.ResetAll(app.ResetAllCommand{})
	case "show":
		renderReport(s.out, s.service.Report())
	case "total":
		renderTotals(s.out, s.service.Report())
	case "history":
		err = s.history(fields[1:])
	case "check":
		err = s.service.Verify()
		if err == nil {
			fmt.Fprintf(s.out, "history matches tally at v%d\n", s.service.Version())
		}
	case "denominations", "denoms":
		renderDenominations(s.out, s.service)
	default:
		err = fmt.Errorf("unknown command %q, type help for a list", fields[0])
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Session) set(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: set ID QTY")
	}
	d, ok := s.service.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown denomination %q", args[0])
	}
	return s.service.SetQuantity(app.SetQuantityCommand{
		DenominationID: d.ID,
		Input:          strings.Join(args[1:], " "),
	})
}

func (s *Session) history(args []string) error {
	var query app.GetHistoryQuery
	switch {
	case len(args) == 0:
	case len(args) == 2 && strings.EqualFold(args[0], "since"):
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			return fmt.Errorf("usage: history since V")
		}
		query.After = v
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("usage: history [N]")
		}
		if total := s.service.Version(); n < total {
			query.Skip = total - n
		}
	default:
		return fmt.Errorf("usage: history [N] | history since V")
	}

	history, err := s.service.History(query)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(s.out, "(no edits yet)")
		return nil
	}

	for _, event := range history {
		base := event.GetBase()
		fmt.Fprintf(s.out, "v%d [%s] ", base.Version, base.Timestamp.Local().Format(time.TimeOnly))
		switch e := event.(type) {
		case events.QuantitySetEvent:
			fmt.Fprintf(s.out, "%s: %d -> %d (typed %q)\n", e.DenominationID, e.Previous, e.Quantity, e.Input)
		case events.FloatAmountSetEvent:
			fmt.Fprintf(s.out, "float: %s -> %s (typed %q)\n",
				s.service.FormatCurrency(e.Previous), s.service.FormatCurrency(e.Amount), e.Input)
		case events.TallyResetEvent:
			fmt.Fprintf(s.out, "reset, cleared %d denominations\n", len(e.Cleared))
		default:
			fmt.Fprintf(s.out, "%s\n", base.Type)
		}
	}
	return nil
}

var sessionCommands = []prompt.Suggest{
	{Text: "set", Description: "set ID QTY"},
	{Text: "float", Description: "float AMOUNT"},
	{Text: "reset", Description: "clear every count"},
	{Text: "show", Description: "print the tally"},
	{Text: "total", Description: "print the totals"},
	{Text: "history", Description: "list edits"},
	{Text: "check", Description: "verify the edit history"},
	{Text: "denominations", Description: "list denominations"},
	{Text: "help", Description: "show help"},
	{Text: "exit", Description: "leave"},
}

// Complete suggests commands for the first word and denomination ids after "set".
func (s *Session) Complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	fields := strings.Fields(before)
	word := d.GetWordBeforeCursor()

	if len(fields) == 0 || (len(fields) == 1 && word != "") {
		return prompt.FilterHasPrefix(sessionCommands, word, true)
	}

	if strings.ToLower(fields[0]) == "set" && (len(fields) == 1 || (len(fields) == 2 && word != "")) {
		suggestions := make([]prompt.Suggest, 0, len(s.service.Denominations()))
		for _, denom := range s.service.Denominations() {
			suggestions = append(suggestions, prompt.Suggest{
				Text:        string(denom.ID),
				Description: fmt.Sprintf("%s (%d)", denom.Label, s.service.Quantity(denom.ID)),
			})
		}
		return prompt.FilterHasPrefix(suggestions, word, true)
	}
	return nil
}
