// Package pages holds the web UI pages.
package pages

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/web/templates/layout"
)

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	ShirtNumber string
	Error       string
}

// ChangePINData is the data for the forced PIN change page.
// The player's current PIN travels in a hidden field.
type ChangePINData struct {
	layout.PageData
	ShirtNumber int
	PlayerName  string
	OldPIN      string
	Error       string
}

// VoteData is the data for the ballot page
type VoteData struct {
	layout.PageData
	ShirtNumber int
	PlayerName  string
	PIN         string
	Schema      model.BallotSchema
	Candidates  []string
	Selected    map[model.Category]string
	Reason      string
	Anonymous   bool
	Error       string
}

// FeedbackData is the data for the feedback form
type FeedbackData struct {
	layout.PageData
	ShirtNumber string
	DisplayName string
	Text        string
	Anonymous   bool
	Error       string
}

// InboxData is the data for a player's inbox
type InboxData struct {
	layout.PageData
	ShirtNumber string
	// Loaded is set once credentials were accepted
	Loaded   bool
	Messages []*model.Message
	Error    string
}

// AdminData is the data for the coach dashboard
type AdminData struct {
	layout.PageData
	// AuthQuery is appended to every admin URL, e.g. "?password=..." in query-param mode
	AuthQuery string
	Pending   []*model.Player
	Players   []*model.Player
	Standings []model.Standing
	Messages  []*model.Message
}

// InboxSender is how the coach sees a message's sender
func InboxSender(m *model.Message) string {
	if m.IsAnonymous {
		return model.AnonymousSenderLabel
	}
	return fmt.Sprintf("#%d %s", m.Sender, m.SenderName)
}

func shirtLabel(s model.ShirtNumber) string {
	return strconv.Itoa(int(s))
}

func playerURL(shirt model.ShirtNumber, action, authQuery string) templ.SafeURL {
	return templ.SafeURL("/admin/players/" + shirtLabel(shirt) + "/" + action + authQuery)
}

func adminURL(path, authQuery string) templ.SafeURL {
	return templ.SafeURL(path + authQuery)
}

func sentAt(m *model.Message) string {
	return m.CreatedAt.Format("02.01.2006 15:04")
}
