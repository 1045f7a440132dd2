package view

import (
	"fmt"
	"strings"

	"waypoint-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// draw renders from live state so silent updates (price, offers, focus) show without a rebuild.
func (v *PointEdit) draw(form *editForm) string {
	s := v.state
	var rows []string

	rows = append(rows, v.field(FieldType, "Type", "◂ "+typeLabel(s.Type)+" ▸"))

	dest := v.field(FieldDestination, "Destination", form.destination.View())
	rows = append(rows, dest)
	if s.Focus == FieldDestination {
		if names := v.suggestions(3); len(names) > 0 {
			rows = append(rows, styleLabel().Render("")+"  "+styleMuted().Render(strings.Join(names, " · ")+"  (ctrl+n)"))
		}
	}

	from, to := "", ""
	if form.dateFrom != nil {
		from = form.dateFrom.Format()
	}
	if form.dateTo != nil {
		to = form.dateTo.Format()
	}
	rows = append(rows, v.field(FieldDateFrom, "From", from))
	rows = append(rows, v.field(FieldDateTo, "To", to))
	rows = append(rows, v.field(FieldPrice, "Price", "€ "+form.price.View()))

	if offers := v.offers(); len(offers) > 0 {
		rows = append(rows, "", styleMuted().Render("Offers"))
		for i, o := range offers {
			box := "[ ]"
			st := lipgloss.NewStyle()
			if containsInt(s.Offers, o.ID) {
				box = "[x]"
				st = st.Foreground(colorOfferActive)
			}
			line := fmt.Sprintf("%s %s  +€%d", box, o.Title, o.Price)
			marker := "  "
			if s.Focus == FieldOffers && i == s.OfferCursor {
				marker = "› "
				st = st.Inherit(styleFocused())
			}
			rows = append(rows, marker+st.Render(line))
		}
	}

	rows = append(rows, "", v.buttons())

	if s.Problem != "" {
		rows = append(rows, styleError().Render(s.Problem))
	}

	if d, ok := model.FindDestination(v.destinations, s.Destination); ok {
		if desc := renderMarkdown(d.Description, v.width-6); desc != "" {
			rows = append(rows, "", styleMuted().Render("Destination"), desc)
		}
		if len(d.Pictures) > 0 {
			var pics []string
			for _, p := range d.Pictures {
				pics = append(pics, p.Description)
			}
			rows = append(rows, styleMuted().Render("Photos: "+strings.Join(pics, " · ")))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFormBorder).
		Padding(0, 1).
		Width(v.width - 2).
		Render(strings.Join(rows, "\n"))
}

func (v *PointEdit) field(f EditField, label, value string) string {
	marker := "  "
	if v.state.Focus == f {
		marker = "› "
		if f == FieldType || f == FieldDateFrom || f == FieldDateTo {
			value = styleFocused().Render(value)
		}
	}
	return marker + styleLabel().Render(label) + value
}

func (v *PointEdit) buttons() string {
	btn := func(f EditField, label string) string {
		st := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false)
		if v.state.Focus == f {
			st = st.Inherit(styleFocused()).BorderForeground(colorAccent)
		}
		return st.Render(label)
	}
	resetLabel := "Delete"
	if v.isNewPoint {
		resetLabel = "Cancel"
	}
	parts := []string{btn(FieldSave, "Save"), btn(FieldReset, resetLabel)}
	if !v.isNewPoint {
		parts = append(parts, btn(FieldRollup, "▲"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// suggestions returns destination names ranked against the typed text.
func (v *PointEdit) suggestions(n int) []string {
	names := make([]string, 0, len(v.destinations))
	for _, d := range v.destinations {
		names = append(names, d.Name)
	}
	text := ""
	if v.form != nil {
		text = strings.TrimSpace(v.form.destination.Value())
	}
	var out []string
	if text == "" {
		out = names
	} else {
		for _, m := range fuzzy.Find(text, names) {
			if m.Str == text {
				continue
			}
			out = append(out, m.Str)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func typeLabel(t model.PointType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
