// Package templates holds the HTML components of the comparison page.
//
// Components are plain templ.Component values built with
// templ.ComponentFunc; every dynamic string goes through templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/IterDiff/internal/core"
)

// SlotView is what the files panel shows for one slot.
type SlotView struct {
	Slot     core.Slot
	Title    string
	Label    string
	Count    int
	Loaded   bool
	Warnings []string
}

// SlotViews describes both slots of sess.
func SlotViews(sess *core.Session) []SlotView {
	slots := []core.Slot{core.SlotOriginal, core.SlotUpdated}
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		v := SlotView{Slot: slot, Title: slot.Title()}
		if snap := sess.Snapshot(slot); snap != nil {
			v.Loaded = true
			v.Label = snap.Label
			v.Count = snap.Len()
			v.Warnings = snap.Warnings()
		}
		views = append(views, v)
	}
	return views
}

// htmlWriter accumulates the first write error so components read linearly.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Page is the full comparison page.
func Page(slots []SlotView, result *core.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Iteration Diff</title>
<link rel="stylesheet" href="/static/app.css">
<script src="/static/app.js" defer></script>
</head>
<body>
<header><h1>Iteration Diff</h1><p>Load two exports of the same iteration to see which work items were removed, added, or kept.</p></header>
<main>
<section class="loaders">`)
		for _, s := range slots {
			h.printf(`
<form class="loader" data-slot="%s" enctype="multipart/form-data">
<label>%s <input type="file" name="file" accept=".csv,.tsv,.txt,.xlsx,.xlsm"></label>
</form>`, templ.EscapeString(string(s.Slot)), templ.EscapeString(s.Title))
		}
		h.raw(`
<div class="actions">
<button type="button" id="compare">Compare</button>
<button type="button" id="clear" class="secondary">Clear</button>
</div>
</section>
<section id="files">`)
		h.render(ctx, FilesPanel(slots))
		h.raw(`</section>
<section id="results">`)
		h.render(ctx, Results(result))
		h.raw(`</section>
</main>
<div id="toasts" aria-live="polite"></div>
</body>
</html>
`)
		return h.err
	})
}

// FilesPanel lists the files being compared.
func FilesPanel(slots []SlotView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>Files being compared</h2><ul class="files">`)
		for _, s := range slots {
			h.printf(`<li data-slot="%s"><strong>%s:</strong> `, templ.EscapeString(string(s.Slot)), templ.EscapeString(s.Title))
			if !s.Loaded {
				h.raw(`<em>No file loaded</em></li>`)
				continue
			}
			h.text(s.Label)
			h.printf(` <span class="count">(%d items)</span>`, s.Count)
			for _, warn := range s.Warnings {
				h.raw(`<div class="warning">`)
				h.text(warn)
				h.raw(`</div>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

// Results renders the three partitions, or a hint when nothing was compared.
func Results(result *core.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if result == nil {
			h.raw(`<p class="empty">Load both files and press Compare.</p>`)
			return h.err
		}
		for _, p := range core.Partitions {
			records, _ := result.Records(p)
			h.render(ctx, PartitionTable(p, records))
		}
		return h.err
	})
}

func cellURL(p core.Partition, id, field string) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("field", field)
	return "/api/result/" + url.PathEscape(string(p)) + "/cell?" + q.Encode()
}

// PartitionTable renders one partition with its copy actions.
func PartitionTable(p core.Partition, records []core.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		exportURL := "/api/result/" + url.PathEscape(string(p)) + "/export"

		h.printf(`<div class="partition" data-partition="%s">`, templ.EscapeString(string(p)))
		h.printf(`<h3>%s <span class="count">(%s)</span></h3>`, templ.EscapeString(p.Caption()), strconv.Itoa(len(records)))
		h.printf(`<div class="partition-actions"><button type="button" data-copy-url="%s?format=tsv">Copy table</button> <a href="%s?format=csv" download>Download CSV</a></div>`,
			templ.EscapeString(exportURL), templ.EscapeString(exportURL))

		h.raw(`<table><thead><tr><th></th>`)
		for _, label := range core.ExportLabels() {
			h.raw(`<th>`)
			h.text(label)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)

		specs := core.Fields()
		for _, rec := range records {
			id := rec.Key()
			h.printf(`<tr><td><button type="button" class="mini" title="Copy ID - Title" data-copy-url="%s">&#x2398;</button></td>`,
				templ.EscapeString(cellURL(p, id, core.SummaryField)))
			for _, spec := range specs {
				v := rec.Get(spec.Field).OrEmpty()
				h.printf(`<td data-copy-url="%s" title="Click to copy">`, templ.EscapeString(cellURL(p, id, spec.Key)))
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		if len(records) == 0 {
			h.printf(`<tr><td colspan="%d" class="empty">No items</td></tr>`, len(specs)+1)
		}
		h.raw(`</tbody></table></div>`)
		return h.err
	})
}

// ErrorAlert is the fragment returned for failed HTML requests.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(` <span>`)
			h.text(action)
			h.raw(`</span>`)
		}
		if code != "" {
			h.raw(` <code>`)
			h.text(code)
			h.raw(`</code>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}
