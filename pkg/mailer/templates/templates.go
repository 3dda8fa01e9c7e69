package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`
	Type  string `json:"Type"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	SupportURL  string `json:"SupportURL"`

	ResetURL string `json:"ResetURL"`
	Code     string `json:"Code"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`

	OrderID     string `json:"OrderID"`
	OrderStatus string `json:"OrderStatus"`
	OrderTotal  string `json:"OrderTotal"`
	OrderURL    string `json:"OrderURL"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"title":   titleCase,
		"default": defaultFn,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

const (
	VerifyEmail    = "verify_email"
	ForgotPassword = "forgot_password"
	OrderStatus    = "order_status"
)

// ErrUnknownTemplate is returned by Render for a name with no embedded files.
var ErrUnknownTemplate = errors.New("unknown email template")

var (
	parseOnce sync.Once
	htmlSet   *htmpl.Template
	textSet   *texttpl.Template
	parseErr  error
)

// parsed compiles every embedded template once. Subject and text parts go
// through text/template; only the html part is escaped.
func parsed() (*htmpl.Template, *texttpl.Template, error) {
	parseOnce.Do(func() {
		htmlSet, parseErr = htmpl.New("html").Funcs(htmlFuncMap).ParseFS(FS, "*.html.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse html templates: %w", parseErr)
			return
		}
		textSet, parseErr = texttpl.New("text").Funcs(textFuncMap).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse text templates: %w", parseErr)
		}
	})
	return htmlSet, textSet, parseErr
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(set executor, file string, data any) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces subject, text and html for name from
// <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	hs, ts, err := parsed()
	if err != nil {
		return "", "", "", err
	}
	if ts.Lookup(name+".subject.tmpl") == nil {
		return "", "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	if subject, err = execute(ts, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(ts, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(hs, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
