// Package document renders printable HTML application forms. Each document
// carries a QR code pointing at the verification endpoint so a printed copy
// can be checked against the live status.
package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/skip2/go-qrcode"
)

type Row struct {
	Label string
	Value string
}

// Table is a list section such as members or planned activities.
type Table struct {
	Columns []string
	Rows    [][]string
}

type Section struct {
	Heading string
	Rows    []Row
	Table   *Table
}

type Document struct {
	Organization string
	Title        string
	Reference    string
	Status       string
	Sections     []Section
	// VerifyURL is encoded into the QR code. Empty means no code.
	VerifyURL   string
	GeneratedAt time.Time
}

type view struct {
	Document
	QRCode    template.URL
	Generated string
}

var page = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.Reference}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 32px; color: #222; }
header { display: flex; justify-content: space-between; border-bottom: 2px solid #7a1f1f; padding-bottom: 12px; }
h1 { font-size: 1.4em; margin: 0; color: #7a1f1f; }
h2 { font-size: 1.1em; margin-top: 24px; border-bottom: 1px solid #ddd; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ddd; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #f4f4f4; }
.label { width: 35%; font-weight: bold; }
.status { font-weight: bold; }
footer { margin-top: 32px; font-size: 0.85em; color: #777; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<header>
  <div>
    <div>{{.Organization}}</div>
    <h1>{{.Title}}</h1>
    <div>Reference: {{.Reference}}</div>
    <div class="status">Status: {{.Status}}</div>
  </div>
  {{if .QRCode}}<img alt="verification code" width="128" height="128" src="{{.QRCode}}">{{end}}
</header>
{{range .Sections}}
<section>
  <h2>{{.Heading}}</h2>
  {{if .Rows}}<table>
    {{range .Rows}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
    {{end}}
  </table>{{end}}
  {{with .Table}}<table>
    <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{else}}<tr><td colspan="{{len .Columns}}">None</td></tr>
    {{end}}
  </table>{{end}}
</section>
{{end}}
<footer>Generated {{.Generated}}{{if .VerifyURL}}. Scan the code or visit {{.VerifyURL}} to verify this document.{{end}}</footer>
</body>
</html>
`))

// QRCodeDataURI encodes content as a PNG data URI.
func QRCodeDataURI(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Render produces the HTML page for d.
func Render(d Document) ([]byte, error) {
	v := view{Document: d}
	if d.GeneratedAt.IsZero() {
		v.Generated = time.Now().Format("2006-01-02 15:04")
	} else {
		v.Generated = d.GeneratedAt.Format("2006-01-02 15:04")
	}
	if d.VerifyURL != "" {
		uri, err := QRCodeDataURI(d.VerifyURL, 256)
		if err != nil {
			return nil, err
		}
		v.QRCode = template.URL(uri)
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Title, err)
	}
	return buf.Bytes(), nil
}
