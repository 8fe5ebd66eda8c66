// Package templates provides email template rendering functionality.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer handles email template rendering.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
}

// NewRenderer creates a new template renderer.
func NewRenderer() (*Renderer, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// Render renders both HTML and text versions of a template.
// A missing text version is not an error; the email is sent as HTML only.
func (r *Renderer) Render(templateName string, data interface{}) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", renderError(templateName, err)
	}

	if r.textTemplates.Lookup(templateName+".txt") == nil {
		return htmlBuf.String(), "", nil
	}
	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		return "", "", renderError(templateName, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func renderError(templateName string, err error) error {
	return domainerror.NewEmailError(
		domainerror.ErrCodeTemplateRenderFailed,
		fmt.Sprintf("render %s", templateName),
		fmt.Errorf("%w: %w", domainerror.ErrTemplateRenderFailed, err),
	)
}

// WelcomeData contains data for the welcome email template.
type WelcomeData struct {
	UserName     string
	ReferralCode string
	AppURL       string
}

// DepositConfirmedData contains data for the deposit receipt template.
type DepositConfirmedData struct {
	UserName      string
	Amount        string
	ReceiptNumber string
	AppURL        string
}

// InvestmentCompletedData contains data for the investment completion template.
type InvestmentCompletedData struct {
	UserName    string
	PlanName    string
	Amount      string
	TotalReturn string
	AppURL      string
}
