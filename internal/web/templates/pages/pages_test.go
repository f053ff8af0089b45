package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/web/templates/layout"
)

func renderDoc(t *testing.T, data any) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch d := data.(type) {
	case VoteData:
		err = Vote(d).Render(context.Background(), &buf)
	case AdminData:
		err = Admin(d).Render(context.Background(), &buf)
	case InboxData:
		err = Inbox(d).Render(context.Background(), &buf)
	default:
		t.Fatalf("unsupported page data %T", data)
	}
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestVoteRendersSchema(t *testing.T) {
	doc := renderDoc(t, VoteData{
		PageData:    layout.PageData{Title: "Vote"},
		ShirtNumber: 7,
		PlayerName:  "Elonie",
		PIN:         "1234",
		Schema:      model.SupportSchema(),
		Candidates:  []string{"Eda", "Yarina"},
		Selected:    map[model.Category]string{model.CategoryBonus: "Yarina"},
	})

	assert.Equal(t, 2, doc.Find("select").Length())
	assert.Equal(t, "Yarina", doc.Find(`select[name="pick_bonus"] option[selected]`).AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find(`textarea[name="reason"]`).Length())
	assert.Equal(t, "7", doc.Find(`input[name="shirt_number"]`).AttrOr("value", ""))
}

func TestAdminRendersQueryInActions(t *testing.T) {
	doc := renderDoc(t, AdminData{
		PageData:  layout.PageData{Title: "Dashboard"},
		AuthQuery: "?password=a&b",
		Players:   []*model.Player{{ShirtNumber: 9, Name: "Yarina"}},
		Standings: []model.Standing{model.NewStanding(9, "Yarina", 17)},
		Messages: []*model.Message{
			{Sender: 3, SenderName: "Eda", Text: "hi"},
			{Sender: 7, SenderName: "Elonie", Text: "secret", IsAnonymous: true},
		},
	})

	assert.Equal(t, "/admin/players/9/reset-pin?password=a&b", doc.Find("form.reset-pin").AttrOr("action", ""))
	assert.Equal(t, "/admin/events?password=a&b", doc.Find("#live").AttrOr("data-events", ""))
	assert.Equal(t, "1", doc.Find(`#standings tr[data-shirt="9"] td.gifts`).Text())
	assert.Contains(t, doc.Find(`#standings td.progress`).Text(), "2/15")

	senders := doc.Find("#inbox .from").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"#3 Eda", "Anonymous"}, senders)
	assert.Equal(t, "Everyone has voted.", doc.Find("#missing-votes .empty").Text())
}

func TestInboxHidesAnonymousSender(t *testing.T) {
	doc := renderDoc(t, InboxData{
		PageData: layout.PageData{Title: "Inbox"},
		Loaded:   true,
		Messages: []*model.Message{{SenderName: "Eda", Text: "well played", IsAnonymous: true}},
	})
	assert.Equal(t, "Anonymous", doc.Find(".message .from").Text())
	assert.Equal(t, 0, doc.Find("form#inbox-form").Length())
}
