package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/matchawards/internal/api/response"
)

const timeLayout = "02.01.2006 15:04"

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.Status:
		fmt.Fprintf(o.w, "OK: %s\n", v.Status)
	case response.Login:
		o.printLogin(v)
	case response.Ballot:
		o.printBallot(v)
	case response.Vote:
		o.printVote(v)
	case response.Message:
		o.printMessage(v)
	case response.Messages:
		o.printMessages(v)
	case response.Standings:
		o.printStandings(v)
	case response.Roster:
		o.printRoster(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printLogin(l response.Login) {
	fmt.Fprintf(o.w, "Logged in as #%d %s\n", l.ShirtNumber, l.Name)
	if l.NeedsPINChange {
		fmt.Fprintln(o.w, "Your PIN is still the default. Change it with: awards pin")
	}
	if l.IsAdmin && l.AdminExpiresAt != nil {
		fmt.Fprintf(o.w, "Coach session valid until %s\n", l.AdminExpiresAt.Local().Format(timeLayout))
	}
}

func (o *Output) printBallot(b response.Ballot) {
	fmt.Fprintf(o.w, "Ballot: %s\n", b.Schema.Name)
	for _, c := range b.Schema.Categories {
		req := ""
		if c.Required {
			req = " (required)"
		}
		fmt.Fprintf(o.w, "  --pick %s=<name>  %s%s\n", c.Category, c.Label, req)
	}
	if b.Schema.RequireReason {
		fmt.Fprintln(o.w, "  --reason <text>  required")
	}
	fmt.Fprintf(o.w, "Candidates: %s\n", strings.Join(b.Candidates, ", "))
}

func (o *Output) printVote(v response.Vote) {
	fmt.Fprintf(o.w, "Vote recorded (%s)\n", v.ID)
	for _, p := range v.Picks {
		if p.Target != nil {
			fmt.Fprintf(o.w, "  %s: %s (#%d)\n", p.Category, p.TargetName, *p.Target)
		} else {
			fmt.Fprintf(o.w, "  %s: %s (not on the roster)\n", p.Category, p.TargetName)
		}
	}
}

func (o *Output) printMessage(m response.Message) {
	fmt.Fprintf(o.w, "[%s] %s: %s\n", m.CreatedAt.Local().Format(timeLayout), m.From, m.Text)
}

func (o *Output) printMessages(m response.Messages) {
	if len(m.Messages) == 0 {
		fmt.Fprintln(o.w, "No messages.")
		return
	}
	for _, msg := range m.Messages {
		o.printMessage(msg)
	}
}

func (o *Output) printStandings(s response.Standings) {
	fmt.Fprintf(o.w, "%-4s %-20s %6s %6s %s\n", "#", "Name", "Votes", "Gifts", "Next gift")
	for _, st := range s.Standings {
		fmt.Fprintf(o.w, "%-4d %-20s %6d %6d %d/%d\n", st.ShirtNumber, st.Name, st.Votes, st.Gifts, st.Progress, s.Milestone)
	}
}

func (o *Output) printRoster(r response.Roster) {
	for _, p := range r.Players {
		state := "voted"
		if !p.HasVoted {
			state = "pending"
		}
		pin := ""
		if p.NeedsPINChange {
			pin = " [default PIN]"
		}
		fmt.Fprintf(o.w, "#%-3d %-20s %-8s %d votes%s\n", p.ShirtNumber, p.Name, state, p.Votes, pin)
	}
	fmt.Fprintf(o.w, "Missing votes: %d\n", len(r.Pending))
}
