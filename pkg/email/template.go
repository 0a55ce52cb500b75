package email

import (
	"fmt"
	"html"
	"strings"
)

const signature = `Best regards,<br>Student Service Division<br>University of Peradeniya`

// StatusEmailDetails describes an application status change for the applicant
type StatusEmailDetails struct {
	RecipientName string
	KindLabel     string // e.g. "Society Registration"
	ReferenceID   uint
	SocietyName   string
	EventName     string
	StatusLabel   string
	Comment       string
	DownloadURL   string
	Message       string // extra notes or custom message
}

// ReviewEmailDetails asks an approver to review a pending application
type ReviewEmailDetails struct {
	ReviewerRole  string
	KindLabel     string
	ReferenceID   uint
	SocietyName   string
	EventName     string
	ApplicantName string
	Faculty       string
}

// DigestItem is one row of a pending reminder digest
type DigestItem struct {
	KindLabel   string
	ReferenceID uint
	SocietyName string
	EventName   string
	Submitted   string
}

func layout(title, content string) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; border:1px solid #e0e0e0; border-radius:8px; overflow:hidden;">
            <div style="background: #7a1f1f; color: #fff; padding: 18px 24px;">
                <h2 style="margin:0; font-size: 1.3em;">%s</h2>
            </div>
            <div style="background: #f9f9f9; padding: 24px;">
                %s
                <p style="margin-top: 24px;">%s</p>
            </div>
            <div style="background: #f1f1f1; color: #888; font-size: 0.95em; padding: 10px 24px;">
                This is an automated notification from the Society Management System.
            </div>
        </div>
    `, html.EscapeString(title), content, signature)
}

func subjectLine(kindLabel, society, event string) string {
	if event != "" {
		return fmt.Sprintf("%s for %s (%s)", kindLabel, html.EscapeString(event), html.EscapeString(society))
	}
	return fmt.Sprintf("%s for %s", kindLabel, html.EscapeString(society))
}

// BuildStatusEmail renders the applicant notification for a status change
func BuildStatusEmail(d StatusEmailDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="font-size: 1.1em; margin-bottom: 18px;">Dear <b>%s</b>,</p>`, html.EscapeString(d.RecipientName))
	fmt.Fprintf(&b, `<p style="margin-bottom: 18px;">Your %s (reference #%d) is now
                    <span style="color: #7a1f1f; font-weight: bold;">%s</span>.</p>`,
		subjectLine(d.KindLabel, d.SocietyName, d.EventName), d.ReferenceID, html.EscapeString(d.StatusLabel))
	if d.Comment != "" {
		fmt.Fprintf(&b, `<p style="margin-bottom: 18px;"><b>Comment:</b> %s</p>`, html.EscapeString(d.Comment))
	}
	if d.DownloadURL != "" {
		fmt.Fprintf(&b, `<p style="margin-bottom: 18px;"><a href="%s">Download your application</a></p>`, html.EscapeString(d.DownloadURL))
	}
	if d.Message != "" {
		fmt.Fprintf(&b, `<div style="margin-top: 18px; padding: 12px; background: #fffbe6; border-left: 4px solid #ffe066;"><b>Notes:</b> %s</div>`, html.EscapeString(d.Message))
	}
	return layout(fmt.Sprintf("%s - %s", d.KindLabel, d.StatusLabel), b.String())
}

// BuildReviewRequestEmail renders the notification sent to the next approver
func BuildReviewRequestEmail(d ReviewEmailDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="font-size: 1.1em; margin-bottom: 18px;">Dear %s,</p>`, html.EscapeString(d.ReviewerRole))
	fmt.Fprintf(&b, `<p style="margin-bottom: 18px;">A %s (reference #%d) is waiting for your review.</p>`,
		subjectLine(d.KindLabel, d.SocietyName, d.EventName), d.ReferenceID)
	fmt.Fprintf(&b, `<p style="margin-bottom: 18px;"><b>Applicant:</b> %s<br><b>Faculty:</b> %s</p>`,
		html.EscapeString(d.ApplicantName), html.EscapeString(d.Faculty))
	b.WriteString(`<p>Please log in to the admin panel to approve or reject it.</p>`)
	return layout("Approval required: "+d.KindLabel, b.String())
}

// BuildNominationEmail tells a senior treasurer they were nominated
func BuildNominationEmail(treasurerName, societyName, applicantName string) string {
	content := fmt.Sprintf(`<p style="font-size: 1.1em; margin-bottom: 18px;">Dear %s,</p>
                <p style="margin-bottom: 18px;">You have been nominated as the Senior Treasurer of <b>%s</b> in a registration submitted by %s.</p>
                <p>If you did not agree to this nomination, please contact the Student Service Division.</p>`,
		html.EscapeString(treasurerName), html.EscapeString(societyName), html.EscapeString(applicantName))
	return layout("Senior Treasurer nomination", content)
}

// BuildDigestEmail lists the applications waiting on a reviewer
func BuildDigestEmail(recipientName string, items []DigestItem) string {
	var rows strings.Builder
	for _, it := range items {
		name := it.SocietyName
		if it.EventName != "" {
			name = it.EventName + " (" + it.SocietyName + ")"
		}
		fmt.Fprintf(&rows, `<tr><td style="padding:4px 8px;">#%d</td><td style="padding:4px 8px;">%s</td><td style="padding:4px 8px;">%s</td><td style="padding:4px 8px;">%s</td></tr>`,
			it.ReferenceID, html.EscapeString(it.KindLabel), html.EscapeString(name), html.EscapeString(it.Submitted))
	}
	content := fmt.Sprintf(`<p style="font-size: 1.1em; margin-bottom: 18px;">Dear %s,</p>
                <p style="margin-bottom: 18px;">You have %d application(s) waiting for your review.</p>
                <table style="border-collapse: collapse;">%s</table>`,
		html.EscapeString(recipientName), len(items), rows.String())
	return layout("Pending approvals", content)
}

// BuildBulkEmail wraps a plain-text announcement, keeping its line breaks
func BuildBulkEmail(subject, body string) string {
	escaped := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
	return layout(subject, `<p style="margin-bottom: 18px;">`+escaped+`</p>`)
}
