// Package renderer renders the referral reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/referral"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates holds the report templates, by file name.
var templates, _ = fs.Sub(templatesFS, "templates")

// funcs are the functions available to every template.
var funcs = template.FuncMap{
	"bar": progressBar,
}

// RenderOverview renders the overview of a referrer.
func RenderOverview(o referral.Overview) string {
	return renderTemplate("overview", "overview.md", nil, o)
}

// RenderReferrals renders the referral listing.
func RenderReferrals(rows []referral.ReferralRow) string {
	return renderTemplate("referrals", "referrals.md", nil, rows)
}

// RenderDetail renders the earnings of a single referral.
func RenderDetail(d referral.Detail) string {
	partials := map[string]string{
		"detail_signup": "detail_signup.md",
		"detail_tiers":  "detail_tiers.md",
		"detail_stacks": "detail_stacks.md",
	}
	return renderTemplate("detail", "detail.md", partials, d)
}

// RenderGroupBonuses renders the additional bonus listing.
func RenderGroupBonuses(rows []referral.GroupBonusRow) string {
	return renderTemplate("bonuses", "bonuses.md", nil, rows)
}

// RenderProgress renders the progress toward the next additional bonus. active
// is false when the referrer has no active counter.
func RenderProgress(p referral.ProgressSummary, active bool) string {
	data := struct {
		Active  bool
		Summary referral.ProgressSummary
	}{active, p}
	return renderTemplate("progress", "progress.md", nil, data)
}

// RenderAudit renders the reconciliation of the stack records with the progress counters.
func RenderAudit(rows []referral.Reconciliation) string {
	return renderTemplate("audit", "audit.md", nil, rows)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
