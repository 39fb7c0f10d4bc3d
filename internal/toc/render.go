package toc

import (
	"bytes"
	"fmt"
	"html/template"
)

// FoldOptions controls which sections start collapsed.
type FoldOptions struct {
	Enable bool
	// Level is how many nesting levels stay open. 0 closes every fold.
	Level int
}

// RenderOptions configures Render.
type RenderOptions struct {
	Fold FoldOptions
}

// itemView is the template-facing form of one <li>.
type itemView struct {
	Kind     string
	Class    string
	Href     string
	Number   string
	Title    string
	Draft    bool
	Toggle   bool
	Children []itemView
}

const markupTemplate = `{{define "label"}}{{if .Number}}<strong aria-hidden="true">{{.Number}}</strong> {{end}}{{.Title}}{{end}}` +
	`{{define "items"}}{{range .}}` +
	`{{if eq .Kind "part"}}<li class="part-title">{{.Title}}</li>` +
	`{{else if eq .Kind "spacer"}}<li class="spacer"></li>` +
	`{{else if eq .Kind "section"}}<li><ol class="section">{{template "items" .Children}}</ol></li>` +
	`{{else}}<li class="{{.Class}}">{{if .Draft}}<div>{{template "label" .}}</div>{{else}}<a href="{{.Href}}">{{template "label" .}}</a>{{end}}` +
	`{{if .Toggle}}<a class="toggle"><div>❱</div></a>{{end}}</li>{{end}}` +
	`{{end}}{{end}}` +
	`<ol class="chapter">{{template "items" .}}</ol>`

var markupTmpl = template.Must(template.New("sidebar").Parse(markupTemplate))

// Render produces the sidebar markup for tree. Link targets are left relative
// to the book root; the sidebar controller prefixes them per page.
func Render(tree *Tree, opts RenderOptions) (string, error) {
	views := buildViews(tree.Items, 0, opts.Fold)
	var buf bytes.Buffer
	if err := markupTmpl.Execute(&buf, views); err != nil {
		return "", fmt.Errorf("rendering sidebar markup: %w", err)
	}
	return buf.String(), nil
}

func buildViews(nodes []*Node, depth int, fold FoldOptions) []itemView {
	var views []itemView
	for _, n := range nodes {
		switch n.Kind {
		case PartTitle:
			views = append(views, itemView{Kind: "part", Title: n.Title})
		case Separator:
			views = append(views, itemView{Kind: "spacer"})
		default:
			class := "chapter-item "
			if !fold.Enable || depth < fold.Level {
				class += "expanded "
			}
			if n.Affix {
				class += "affix "
			}
			views = append(views, itemView{
				Kind:   "chapter",
				Class:  class,
				Href:   n.Path,
				Number: n.SectionNumber(),
				Title:  n.Title,
				Draft:  n.Draft(),
				Toggle: fold.Enable && len(n.Children) > 0,
			})
			if len(n.Children) > 0 {
				views = append(views, itemView{
					Kind:     "section",
					Children: buildViews(n.Children, depth+1, fold),
				})
			}
		}
	}
	return views
}
