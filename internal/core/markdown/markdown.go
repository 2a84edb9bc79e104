// Package markdown converts checklists to and from GitHub-flavored markdown
// task lists. Nesting is expressed with two-space indentation and item
// metadata travels in a trailing HTML comment so exports round-trip.
package markdown

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/nest/internal/core/checklist"
)

const dateLayout = "2006-01-02"

// Frontmatter holds metadata stored in a document's YAML front matter.
type Frontmatter struct {
	ID    string `yaml:"id,omitempty"`
	Title string `yaml:"title,omitempty"`
}

// Document is the result of parsing a markdown checklist.
type Document struct {
	Frontmatter Frontmatter
	Title       string
	Items       checklist.List
}

// RenderOptions selects what Render includes beyond the task list.
type RenderOptions struct {
	// Frontmatter writes the checklist ID and title as YAML front matter.
	Frontmatter bool
	// Metadata appends an HTML comment with the item ID, priority, due date
	// and collapse state to every line. Without it priority and due date are
	// rendered as readable text.
	Metadata bool
}

// Render writes c as a markdown task list.
func Render(c checklist.Checklist, opts RenderOptions) string {
	var b strings.Builder

	if opts.Frontmatter {
		fm, _ := yaml.Marshal(Frontmatter{ID: c.ID, Title: c.Title})
		b.WriteString("---\n")
		b.Write(fm)
		b.WriteString("---\n")
	}

	if c.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", oneLine(c.Title))
	}

	for _, it := range c.Items {
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		b.WriteString(strings.Repeat("  ", it.Indent))
		fmt.Fprintf(&b, "- %s %s", box, oneLine(it.Text))

		if opts.Metadata {
			b.WriteString(metaComment(it))
		} else if note := annotation(it); note != "" {
			b.WriteString(" _(" + note + ")_")
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func metaComment(it checklist.Item) string {
	parts := []string{"id:" + it.ID}
	if it.Priority != checklist.PriorityNone {
		parts = append(parts, "priority:"+string(it.Priority))
	}
	if it.DueDate != nil {
		parts = append(parts, "due:"+it.DueDate.Format(dateLayout))
	}
	if it.CompletedAt != nil {
		parts = append(parts, "done:"+it.CompletedAt.UTC().Format(time.RFC3339))
	}
	if it.Collapsed {
		parts = append(parts, "collapsed")
	}
	return " <!-- " + strings.Join(parts, " ") + " -->"
}

func annotation(it checklist.Item) string {
	var parts []string
	if it.Priority != checklist.PriorityNone {
		parts = append(parts, string(it.Priority))
	}
	if it.DueDate != nil {
		parts = append(parts, "due "+it.DueDate.Format(dateLayout))
	}
	return strings.Join(parts, ", ")
}

var (
	taskLine   = regexp.MustCompile(`^([ \t]*)[-*+][ \t]+(?:\[([ xX])\][ \t]+)?(.*)$`)
	metaSuffix = regexp.MustCompile(`[ \t]*<!--(.*?)-->[ \t]*$`)
)

// Parse reads a markdown task list. Bullet lines become items, with or
// without a checkbox; every other line is ignored apart from front matter
// and the first level-one heading, which supplies the title when the front
// matter has none.
//
// Indentation is two spaces or one tab per level and is clamped so the
// result is always a well-formed list. Items without an ID in their metadata
// comment, or whose ID was already used, get one from newID.
func Parse(content string, newID func() string) (Document, error) {
	var doc Document

	body, fm, err := splitFrontmatter(content)
	if err != nil {
		return Document{}, err
	}
	doc.Frontmatter = fm
	doc.Title = fm.Title

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()

		if doc.Title == "" && len(doc.Items) == 0 && strings.HasPrefix(line, "# ") {
			doc.Title = strings.TrimSpace(line[2:])
			continue
		}

		m := taskLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		it := checklist.Item{
			Completed: m[2] == "x" || m[2] == "X",
			Indent:    depth(m[1]),
		}

		text := m[3]
		if meta := metaSuffix.FindStringSubmatch(text); meta != nil {
			text = text[:len(text)-len(meta[0])]
			if err := applyMeta(&it, meta[1]); err != nil {
				return Document{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		it.Text = strings.TrimSpace(text)

		if it.ID == "" || seen[it.ID] {
			it.ID = newID()
		}
		seen[it.ID] = true
		doc.Items = append(doc.Items, it)
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("read markdown: %w", err)
	}

	doc.Items = normalize(doc.Items)
	return doc, nil
}

// splitFrontmatter separates YAML front matter delimited by "---" lines from
// the rest of the document.
func splitFrontmatter(content string) (string, Frontmatter, error) {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return content, Frontmatter{}, nil
	}

	head, body, found := strings.Cut(rest, "\n---")
	if !found {
		return content, Frontmatter{}, nil
	}
	body = strings.TrimPrefix(body, "\n")

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return "", Frontmatter{}, fmt.Errorf("parse front matter: %w", err)
	}
	return body, fm, nil
}

func depth(lead string) int {
	level, spaces := 0, 0
	for _, r := range lead {
		if r == '\t' {
			level++
			spaces = 0
			continue
		}
		spaces++
		if spaces == 2 {
			level++
			spaces = 0
		}
	}
	return level
}

func applyMeta(it *checklist.Item, meta string) error {
	for _, tok := range strings.Fields(meta) {
		key, val, _ := strings.Cut(tok, ":")
		switch key {
		case "id":
			it.ID = val
		case "priority":
			p := checklist.Priority(val)
			if !p.IsValid() {
				return fmt.Errorf("unknown priority %q", val)
			}
			it.Priority = p
		case "due":
			due, err := time.Parse(dateLayout, val)
			if err != nil {
				return fmt.Errorf("invalid due date %q: %w", val, err)
			}
			it.DueDate = &due
		case "done":
			at, err := time.Parse(time.RFC3339, val)
			if err != nil {
				return fmt.Errorf("invalid completion time %q: %w", val, err)
			}
			it.CompletedAt = &at
		case "collapsed":
			it.Collapsed = true
		}
	}
	return nil
}

// normalize clamps indents into a well-formed tree, drops stray completion
// times and collapse flags that do not apply.
func normalize(items checklist.List) checklist.List {
	for i := range items {
		limit := 0
		if i > 0 {
			limit = items[i-1].Indent + 1
		}
		items[i].Indent = min(items[i].Indent, limit, checklist.MaxIndent)
		if !items[i].Completed {
			items[i].CompletedAt = nil
		}
	}
	for i := range items {
		if items[i].Collapsed && !checklist.HasChildren(items, i) {
			items[i].Collapsed = false
		}
	}
	if items == nil {
		items = checklist.List{}
	}
	return items
}
