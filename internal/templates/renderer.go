// Package templates renders the order and workflow emails. Every email is
// produced as an HTML body and a plain-text body from the same view data.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed *.html *.txt
var templateFS embed.FS

// ErrNilRenderer is returned when a render method is called on a nil renderer.
var ErrNilRenderer = errors.New("renderer is nil")

const (
	templateOrderCustomer  = "order_customer"
	templateOrderAdmin     = "order_admin"
	templateWorkflowUpdate = "workflow_update"

	// DefaultViewOrderURL is where customers look up an order by token.
	DefaultViewOrderURL = "https://elipsestudio.com/CustomerChecker/customercheckpage.html"
	// DefaultCompanyName signs the workflow emails.
	DefaultCompanyName = "Studentlife"
)

var templateNames = []string{
	templateOrderCustomer,
	templateOrderAdmin,
	templateWorkflowUpdate,
}

var templateFuncs = map[string]any{
	"upper": strings.ToUpper,
}

// EmailContent is a rendered email
type EmailContent struct {
	Subject string
	HTML    string
	Text    string
}

// Options configures a Renderer
type Options struct {
	// Location is the time zone dates are displayed in. Defaults to UTC.
	Location     *time.Location
	ViewOrderURL string
	CompanyName  string
}

// Renderer handles email template rendering
type Renderer struct {
	html map[string]*htmltemplate.Template
	text map[string]*texttemplate.Template

	location     *time.Location
	viewOrderURL string
	companyName  string
}

// NewRenderer parses the embedded templates. Each email is parsed on top of
// its base file so the shared blocks are available to it.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{
		html:         make(map[string]*htmltemplate.Template),
		text:         make(map[string]*texttemplate.Template),
		location:     opts.Location,
		viewOrderURL: opts.ViewOrderURL,
		companyName:  opts.CompanyName,
	}
	if r.location == nil {
		r.location = time.UTC
	}
	if r.viewOrderURL == "" {
		r.viewOrderURL = DefaultViewOrderURL
	}
	if r.companyName == "" {
		r.companyName = DefaultCompanyName
	}

	baseHTML, err := templateFS.ReadFile("base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}
	baseText, err := templateFS.ReadFile("base.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read base text template: %w", err)
	}

	for _, name := range templateNames {
		content, err := templateFS.ReadFile(name + ".html")
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		tmpl, err := htmltemplate.New("email").Funcs(templateFuncs).Parse(string(baseHTML))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base template for %s: %w", name, err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.html[name] = tmpl

		content, err = templateFS.ReadFile(name + ".txt")
		if err != nil {
			return nil, fmt.Errorf("failed to read text template %s: %w", name, err)
		}
		textTmpl, err := texttemplate.New("email").Funcs(templateFuncs).Parse(string(baseText))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base text template for %s: %w", name, err)
		}
		if _, err := textTmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse text template %s: %w", name, err)
		}
		r.text[name] = textTmpl
	}

	return r, nil
}

// render executes both bodies of a template with the same data
func (r *Renderer) render(name, subject string, data any) (*EmailContent, error) {
	htmlTmpl, ok := r.html[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	textTmpl, ok := r.text[name]
	if !ok {
		return nil, fmt.Errorf("text template %s not found", name)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to execute text template %s: %w", name, err)
	}

	return &EmailContent{
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}

// theme carries the colours of an email. Values are trusted constants.
type theme struct {
	Primary     htmltemplate.CSS
	PrimaryDark htmltemplate.CSS
	Tint        htmltemplate.CSS
}

var (
	customerTheme = theme{Primary: "#10b981", PrimaryDark: "#059669", Tint: "#ecfdf5"}
	adminTheme    = theme{Primary: "#2563eb", PrimaryDark: "#1d4ed8", Tint: "#eff6ff"}
)

// Date layouts per locale, matching how the storefront shows dates.
var (
	dateLayouts = map[Locale]string{
		LocaleDanish:  "2.1.2006",
		LocaleEnglish: "1/2/2006",
	}
	dateTimeLayouts = map[Locale]string{
		LocaleDanish:  "2.1.2006 15.04.05",
		LocaleEnglish: "1/2/2006, 3:04:05 PM",
	}
)

var inputDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders an ISO date in the display zone. Unparseable input is shown as sent.
func (r *Renderer) formatDate(raw string, locale Locale, withTime bool) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	return r.formatTime(t, locale, withTime)
}

func (r *Renderer) formatTime(t time.Time, locale Locale, withTime bool) string {
	layouts := dateLayouts
	if withTime {
		layouts = dateTimeLayouts
	}
	layout, ok := layouts[locale]
	if !ok {
		layout = layouts[LocaleDanish]
	}
	return t.In(r.location).Format(layout)
}
