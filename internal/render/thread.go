package render

import (
	"fmt"
	"strings"

	"github.com/vbonduro/snapback/internal/domain"
)

const (
	Author    = "SnapBack AI"
	Handle    = "@SnapBackAI"
	Timestamp = "1h ago"

	imageCaption = "Complaint Image"
	divider      = "---"

	compensationText = "💰 Potential Compensation: Given the severity, a cashback or monetary compensation could be warranted. @Blinkit, please address this issue."
)

// Hashtags closes every thread.
var Hashtags = []string{"#ConsumerAlert", "#FoodSafety", "#SnapBackAI"}

type PostKind string

const (
	PostAlert        PostKind = "alert"
	PostObservations PostKind = "observations"
	PostSummary      PostKind = "summary"
	PostCompensation PostKind = "compensation"
)

// SummaryLine is one "Label: value" row of the summary post.
type SummaryLine struct {
	Label string
	Value string
}

// Post is one block of the mock thread. Lines holds the body text; the
// summary post also carries its rows in Summary.
type Post struct {
	Kind      PostKind
	Author    string
	Handle    string
	Timestamp string
	Lines     []string
	Summary   []SummaryLine
	// ImageCaption is set on the post that shows the uploaded image.
	ImageCaption string
}

// Body joins the post's lines.
func (p Post) Body() string {
	return strings.Join(p.Lines, "\n")
}

// Thread is the rendered result for one report.
type Thread struct {
	Posts    []Post
	Hashtags []string
}

// BuildThread derives the thread from a report. The output depends only on
// the report, so the same report always renders identically.
func BuildThread(r *domain.Report) Thread {
	a := r.Assessment
	summary := []SummaryLine{
		{Label: "Product Condition", Value: a.ProductCondition},
		{Label: "Expiry Status", Value: a.ExpiryStatus},
		{Label: "Packaging Integrity", Value: a.PackagingIntegrity},
		{Label: "Food Safety Concerns", Value: a.FoodSafetyConcerns},
		{Label: "Severity", Value: strings.ToUpper(a.Severity)},
	}

	summaryLines := make([]string, 0, len(summary)+1)
	summaryLines = append(summaryLines, "AI Analysis Summary:")
	for _, l := range summary {
		summaryLines = append(summaryLines, fmt.Sprintf("- %s: %s", l.Label, l.Value))
	}

	alert := newPost(PostAlert, fmt.Sprintf("🚨 Alert! I encountered a problem with %s. %s", r.Input.Description, Handle))
	alert.ImageCaption = imageCaption

	summaryPost := newPost(PostSummary, summaryLines...)
	summaryPost.Summary = summary

	return Thread{
		Posts: []Post{
			alert,
			newPost(PostObservations, "👁️ Observations: "+r.Observations),
			summaryPost,
			newPost(PostCompensation, compensationText),
		},
		Hashtags: append([]string(nil), Hashtags...),
	}
}

func newPost(kind PostKind, lines ...string) Post {
	return Post{
		Kind:      kind,
		Author:    Author,
		Handle:    Handle,
		Timestamp: Timestamp,
		Lines:     lines,
	}
}

// Text renders the whole thread as plain text, blocks separated by a divider.
func (t Thread) Text() string {
	var sb strings.Builder
	for _, p := range t.Posts {
		fmt.Fprintf(&sb, "%s 🚀 (%s)\n%s\n\n%s\n", p.Author, p.Handle, p.Timestamp, p.Body())
		if p.ImageCaption != "" {
			fmt.Fprintf(&sb, "[%s]\n", p.ImageCaption)
		}
		sb.WriteString(divider + "\n")
	}
	sb.WriteString("Hashtags: " + strings.Join(t.Hashtags, " ") + "\n")
	return sb.String()
}
