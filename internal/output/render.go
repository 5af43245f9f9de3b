package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"areactl/internal/binding"
	"areactl/internal/catalog"
	"areactl/internal/gateway"
)

// Workflows prints a workflow table.
func (p *Printer) Workflows(wfs []gateway.Workflow) {
	p.Print(wfs, func() {
		if len(wfs) == 0 {
			fmt.Fprintln(p.out, p.muted.Render("No workflows found."))
			return
		}
		rows := make([][]string, 0, len(wfs))
		for _, wf := range wfs {
			mod := wf.ModifierName
			if mod == "" {
				mod = "-"
			}
			rows = append(rows, []string{strconv.Itoa(wf.ID), wf.Name, activeLabel(wf.Active), wf.ActionName, mod, wf.ReactionName})
		}
		p.table([]string{"ID", "NAME", "STATE", "ACTION", "MODIFIER", "REACTION"}, rows)
	})
}

// Workflow prints one workflow with its parameters.
func (p *Printer) Workflow(wf gateway.Workflow) {
	p.Print(wf, func() {
		fmt.Fprintf(p.out, "%s %s\n", p.title.Render(fmt.Sprintf("#%d", wf.ID)), wf.Name)
		p.field("State", activeLabel(wf.Active))
		p.stage("Action", wf.ActionName, wf.ActionParameters)
		p.stage("Modifier", wf.ModifierName, wf.ModifierParameters)
		p.stage("Reaction", wf.ReactionName, wf.ReactionParameters)
	})
}

func (p *Printer) stage(label, name string, pairs []string) {
	if name == "" {
		p.field(label, p.muted.Render("none"))
		return
	}
	p.field(label, name)
	for _, pair := range pairs {
		k, v := binding.SplitPair(pair)
		if out, ok := binding.Reference(v); ok {
			v = p.warn.Render("← " + out)
		}
		fmt.Fprintf(p.out, "    %s = %s\n", k, v)
	}
}

// CatalogNames prints the entry names of each kind.
func (p *Printer) CatalogNames(cat *catalog.Catalog, kinds []catalog.Kind) {
	data := make(map[catalog.Kind][]string, len(kinds))
	for _, k := range kinds {
		data[k] = cat.Names(k)
	}
	p.Print(data, func() {
		for i, k := range kinds {
			if i > 0 {
				fmt.Fprintln(p.out)
			}
			fmt.Fprintln(p.out, p.header.Render(k.Title()+"s"))
			entries := cat.Entries(k)
			if len(entries) == 0 {
				fmt.Fprintln(p.out, "  "+p.muted.Render("none available"))
				continue
			}
			for _, e := range entries {
				line := "  " + e.Name
				if e.DisplayName != "" && e.DisplayName != e.Name {
					line += "  " + p.muted.Render(e.DisplayName)
				}
				fmt.Fprintln(p.out, line)
			}
		}
	})
}

// CatalogEntry prints an entry with its parameters and outputs.
func (p *Printer) CatalogEntry(e catalog.Entry) {
	p.Print(e, func() {
		fmt.Fprintf(p.out, "%s %s\n", p.title.Render(e.Label()), p.muted.Render("("+string(e.Kind)+" "+e.Name+")"))
		if e.Description != "" {
			fmt.Fprintln(p.out, e.Description)
		}
		if len(e.Parameters) > 0 {
			fmt.Fprintln(p.out)
			fmt.Fprintln(p.out, p.header.Render("Parameters"))
			rows := make([][]string, 0, len(e.Parameters))
			for _, d := range e.Parameters {
				rows = append(rows, []string{d.Name, d.Label(), d.Type})
			}
			p.table([]string{"NAME", "LABEL", "TYPE"}, rows)
		}
		if len(e.Outputs) > 0 {
			fmt.Fprintln(p.out)
			fmt.Fprintln(p.out, p.header.Render("Outputs"))
			rows := make([][]string, 0, len(e.Outputs))
			for _, o := range e.Outputs {
				rows = append(rows, []string{o.Name, o.Label()})
			}
			p.table([]string{"NAME", "LABEL"}, rows)
		}
	})
}

// Logs prints workflow execution logs.
func (p *Printer) Logs(entries []gateway.LogEntry) {
	p.Print(entries, func() {
		if len(entries) == 0 {
			fmt.Fprintln(p.out, p.muted.Render("No logs yet."))
			return
		}
		for _, e := range entries {
			style := p.muted
			switch e.Type {
			case "error":
				style = p.danger
			case "warn":
				style = p.warn
			}
			ts := "-"
			if !e.Timestamp.IsZero() {
				ts = e.Timestamp.Local().Format(time.DateTime)
			}
			fmt.Fprintf(p.out, "%s %s %s\n", p.muted.Render(ts), style.Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Type))), e.Message)
		}
	})
}

func (p *Printer) field(label, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", p.label.Render(fmt.Sprintf("%-9s", label+":")), value)
}

// table prints left-aligned columns sized to their widest cell.
func (p *Printer) table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if style != nil {
				c = style.Render(c)
			}
			if i < len(cells)-1 {
				c += strings.Repeat(" ", widths[i]-lipgloss.Width(cells[i])+2)
			}
			parts[i] = c
		}
		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(parts, ""), " "))
	}

	line(headers, &p.muted)
	for _, row := range rows {
		line(row, nil)
	}
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "paused"
}
