package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/mcoot/rinkbook/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Game:
		o.printGame(v)
	case []model.Game:
		o.printGameList(v)
	case FinishResult:
		fmt.Fprintln(o.w, v.Message)
		o.printGame(v.Game)
	case MessageResult:
		fmt.Fprintln(o.w, v.Message)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// FinishResult is the finish endpoint's response
type FinishResult struct {
	Message string     `json:"message"`
	Game    model.Game `json:"game"`
}

// MessageResult is a bare confirmation
type MessageResult struct {
	Message string `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func formatScore(s model.Score) string {
	return strconv.FormatFloat(s.Us, 'f', -1, 64) + "-" + strconv.FormatFloat(s.Them, 'f', -1, 64)
}

func formatResult(r *model.GameResult) string {
	if r == nil {
		return "-"
	}
	return string(*r)
}

func (o *Output) printGame(g model.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Team: %s\n", g.TeamID)
	fmt.Fprintf(o.w, "Type: %s\n", g.GameType)
	fmt.Fprintf(o.w, "Date: %s\n", g.GameDate.Format(time.RFC3339))
	fmt.Fprintf(o.w, "Opponent: %s\n", g.Opponent.TeamName)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Score: %s\n", formatScore(g.Score))
	if g.Result != nil {
		fmt.Fprintf(o.w, "Result: %s\n", *g.Result)
	}

	fmt.Fprintf(o.w, "Lineup (%d):\n", len(g.Lineup))
	for _, e := range g.Lineup {
		fmt.Fprintf(o.w, "  %2d. %s\n", e.Slot, e.PlayerID)
	}

	fmt.Fprintf(o.w, "Opponent roster (%d):\n", len(g.Opponent.Roster))
	for _, p := range g.Opponent.Roster {
		fmt.Fprintf(o.w, "  #%s %s\n", strconv.FormatFloat(p.Number, 'f', -1, 64), p.Name)
	}
}

func (o *Output) printGameList(games []model.Game) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEAM\tTYPE\tDATE\tOPPONENT\tSTATUS\tSCORE\tRESULT")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.TeamID, g.GameType, g.GameDate.Format("2006-01-02 15:04"),
			g.Opponent.TeamName, g.Status, formatScore(g.Score), formatResult(g.Result))
	}
	_ = tw.Flush()
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if !h.Timestamp.IsZero() {
		fmt.Fprintf(o.w, "Server time: %s\n", h.Timestamp.Format(time.RFC3339))
	}
}
