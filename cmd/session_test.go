package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cash-tally/app"
	"cash-tally/logging"
	"cash-tally/store"
)

func newTestSession(t *testing.T) (*Session, *app.TallyService, *bytes.Buffer) {
	t.Helper()
	service, err := app.NewTallyService(store.NewInMemoryEventStore(), app.Options{TallyID: "tally-repl", Logger: logging.Discard()})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	session := NewSession(service, out)
	t.Cleanup(session.Close)
	return session, service, out
}

func TestSession_Set(t *testing.T) {
	tests := []struct {
		line string
		want int64
	}{
		{"set 0.25 3", 3},
		{"set 0.25 3a", 3},
		{"set 0.25 3a2", 32},
		{"set 0.25 -5", 5},
		{"set 0.25 abc", 0},
		{"set $0.25 7", 7},
		{"SET 0.25 4", 4},
		{"set 0.25", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			session, service, _ := newTestSession(t)
			require.NoError(t, service.SetQuantity(app.SetQuantityCommand{DenominationID: "0.25", Input: "1"}))

			assert.False(t, session.Exec(tt.line))
			assert.Equal(t, tt.want, service.Quantity("0.25"))
		})
	}
}

func TestSession_Scenario(t *testing.T) {
	session, service, out := newTestSession(t)

	for _, line := range []string{"set 100 1", "set 20 2", "set 5 1", "set 0.25 3"} {
		session.Exec(line)
	}
	assert.Equal(t, "$145.75", service.FormatCurrency(service.GrandTotal()))
	assert.Contains(t, out.String(), "$0.25 x 3 = $0.75 | total $145.75 | bank $0.00")

	out.Reset()
	session.Exec("float 100")
	assert.Equal(t, "float $100.00 | total $145.75 | bank $45.75\n", out.String())

	out.Reset()
	session.Exec("total")
	assert.Equal(t, "Grand Total: $145.75  Float: $100.00  Goes to Bank: $45.75\n", out.String())

	out.Reset()
	session.Exec("show")
	table := out.String()
	assert.Contains(t, table, "Bills")
	assert.Contains(t, table, "Coins")
	assert.Contains(t, table, "$40.00")
	assert.Contains(t, table, "Goes to Bank")

	out.Reset()
	session.Exec("reset")
	assert.Equal(t, "cleared | total $0.00 | bank $0.00\n", out.String())
	assert.Equal(t, "100", service.FloatAmount().String())
}

func TestSession_NoOpPrintsNothing(t *testing.T) {
	session, _, out := newTestSession(t)

	session.Exec("reset")
	session.Exec("set 20 0")
	session.Exec("float 300")
	assert.Empty(t, out.String())
}

func TestSession_Errors(t *testing.T) {
	session, service, out := newTestSession(t)

	session.Exec("set 3 1")
	assert.Contains(t, out.String(), `unknown denomination "3"`)

	out.Reset()
	session.Exec("set")
	assert.Contains(t, out.String(), "usage: set ID QTY")

	out.Reset()
	session.Exec("float")
	assert.Contains(t, out.String(), "usage: float AMOUNT")

	out.Reset()
	session.Exec("deposit 10")
	assert.Contains(t, out.String(), `unknown command "deposit"`)

	assert.Equal(t, 0, service.Version())
}

func TestSession_History(t *testing.T) {
	session, _, out := newTestSession(t)

	session.Exec("history")
	assert.Contains(t, out.String(), "(no edits yet)")

	session.Exec("set 1 2")
	session.Exec("set 1 4x")
	session.Exec("float 50")

	out.Reset()
	session.Exec("history 2")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "v2")
	assert.Contains(t, lines[0], `1: 2 -> 4 (typed "4x")`)
	assert.Contains(t, lines[1], "float: $300.00 -> $50.00")

	out.Reset()
	session.Exec("history since 2")
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "v3")

	out.Reset()
	session.Exec("history x")
	assert.Contains(t, out.String(), "usage: history [N]")

	out.Reset()
	session.Exec("history since -1")
	assert.Contains(t, out.String(), "usage: history since V")
}

func TestSession_Check(t *testing.T) {
	session, _, out := newTestSession(t)
	session.Exec("set 20 2")
	session.Exec("reset")
	session.Exec("float 10")

	out.Reset()
	session.Exec("check")
	assert.Equal(t, "history matches tally at v3\n", out.String())
}

func TestSession_Quit(t *testing.T) {
	session, _, _ := newTestSession(t)
	assert.False(t, session.Exec(""))
	assert.False(t, session.Exec("help"))
	assert.True(t, session.Exec("exit"))
	assert.True(t, session.Exec(" quit "))
}

func TestSession_Complete(t *testing.T) {
	session, _, _ := newTestSession(t)

	complete := func(text string) []string {
		buf := prompt.NewBuffer()
		buf.InsertText(text, false, true)
		var got []string
		for _, s := range session.Complete(*buf.Document()) {
			got = append(got, s.Text)
		}
		return got
	}

	assert.Equal(t, []string{"set", "show"}, complete("s"))
	assert.Equal(t, []string{"0.25", "0.10", "0.05"}, complete("set 0."))
	assert.Len(t, complete("set "), 10)
	assert.Empty(t, complete("set 20 "))
}
