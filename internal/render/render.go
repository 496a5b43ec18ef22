// Package render turns a board and its statistics into a self-contained HTML
// dashboard.
//
// Nothing is escaped here. User text reaches this package as
// types.SafeString, already escaped by the loader, and the template is
// text/template so it is written out verbatim. Any new user-controlled field
// must arrive as a SafeString too.
package render

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"time"

	"github.com/mesh-intelligence/taskboard/internal/stats"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

//go:embed templates/dashboard.html.tmpl
var dashboardTemplate string

var dashboard = template.Must(template.New("dashboard").Parse(dashboardTemplate))

// FooterTimeFormat is the layout of the "Last updated" footer.
const FooterTimeFormat = "2006-01-02 15:04:05 UTC"

// Page is everything one dashboard document is rendered from. Stats must
// have been computed with includePrivate == !Public.
type Page struct {
	Schema      types.Schema
	Board       types.Board
	Stats       stats.Stats
	Public      bool
	GeneratedAt time.Time
}

type view struct {
	TitleSuffix string
	Public      bool
	StatCards   []statCard
	Columns     []columnView
	GeneratedAt string
}

type statCard struct {
	Value string
	Label string
	Class string
}

type columnView struct {
	Name  string
	Label string
	Count int
	Cards []cardView
}

type cardView struct {
	Title         types.SafeString
	Description   types.SafeString
	Tags          []types.SafeString
	Priority      types.Priority
	PriorityLabel string
	PriorityColor string
}

// statClasses gives some stat cards an accent border.
var statClasses = map[string]string{
	"active":  "stat-active",
	"stalled": "stat-stalled",
	"done":    "stat-done",
}

// Render writes the dashboard for page to w.
func Render(w io.Writer, page Page) error {
	if err := dashboard.Execute(w, buildView(page)); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func buildView(page Page) view {
	v := view{
		Public:      page.Public,
		GeneratedAt: page.GeneratedAt.UTC().Format(FooterTimeFormat),
	}
	if page.Public {
		v.TitleSuffix = " (Public)"
	}

	v.StatCards = append(v.StatCards, statCard{Value: strconv.Itoa(page.Stats.Total), Label: "Total Tasks"})
	for _, c := range page.Schema.Columns {
		v.StatCards = append(v.StatCards, statCard{
			Value: strconv.Itoa(page.Stats.Column(c.StatKey)),
			Label: c.StatLabel,
			Class: statClasses[c.StatKey],
		})
	}
	v.StatCards = append(v.StatCards, statCard{
		Value: strconv.FormatFloat(page.Stats.CompletionRate, 'f', 1, 64) + "%",
		Label: "Completion Rate",
	})

	for _, c := range page.Schema.Columns {
		col := columnView{Name: c.Name, Label: c.Label}
		for _, task := range page.Board.Tasks(c.Name) {
			if !task.Visible(page.Public) {
				continue
			}
			level := page.Schema.Level(task.Priority)
			col.Cards = append(col.Cards, cardView{
				Title:         task.Title,
				Description:   task.Description,
				Tags:          task.Tags,
				Priority:      level.Name,
				PriorityLabel: level.Label,
				PriorityColor: level.Color,
			})
		}
		col.Count = len(col.Cards)
		v.Columns = append(v.Columns, col)
	}
	return v
}
