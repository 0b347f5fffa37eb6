// Package view renders the server-side HTML pages.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/vr-inventory/vr-inventory/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// AlertKind selects the alert styling.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// Alert is an inline status message shown above page content.
type Alert struct {
	Kind    AlertKind
	Message string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	Alert       *Alert
	Data        any
}

var moneyPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatDate renders a timestamp as d/M/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2/1/2006")
}

// FormatMoney renders an amount in rupees with locale digit grouping.
func FormatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "₹" + moneyPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatQty renders a quantity without trailing zeros.
func FormatQty(d decimal.Decimal) string {
	return d.String()
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate":  FormatDate,
		"formatMoney": FormatMoney,
		"formatQty":   FormatQty,
		"isNegative": func(d decimal.Decimal) bool {
			return d.IsNegative()
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("view: template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
