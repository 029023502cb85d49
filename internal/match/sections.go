package match

import (
	"strings"
)

const (
	descriptionStart = "Job Description"
	descriptionEnd   = "Targeted Clusters"
)

// Section weights applied to terms found under each heading
const (
	RequirementsWeight     = 1.8
	QualificationsWeight   = 1.5
	ResponsibilitiesWeight = 1.8
)

// Candidate headings per section, tried in order. Matching is case-sensitive.
var (
	requirementsHeaders     = []string{"Requirements", "Required Skills", "Required Qualifications", "What You Need"}
	qualificationsHeaders   = []string{"Qualifications", "Preferred Qualifications", "Skills & Qualifications", "Education"}
	responsibilitiesHeaders = []string{"Responsibilities", "Key Responsibilities", "Job Duties", "Duties", "What You'll Do"}
)

// sectionEndLabels terminates a section body. Every heading above is included
// so one section never swallows the next.
var sectionEndLabels = func() []string {
	labels := []string{
		descriptionEnd, descriptionStart, "Job Summary", "Compensation",
		"Benefits", "About Us", "How to Apply", "Application Deadline",
		"Application Documents", "Targeted Degrees", "Additional Information",
	}
	labels = append(labels, requirementsHeaders...)
	labels = append(labels, qualificationsHeaders...)
	return append(labels, responsibilitiesHeaders...)
}()

// Sections holds the bounded parts of a job overview
type Sections struct {
	Description      string `json:"description"`
	Requirements     string `json:"requirements,omitempty"`
	Qualifications   string `json:"qualifications,omitempty"`
	Responsibilities string `json:"responsibilities,omitempty"`
}

// WeightedSection is a section body with its term multiplier
type WeightedSection struct {
	Name   string
	Text   string
	Weight float64
}

// Weighted returns the non-empty sections in the order their terms are applied
func (s Sections) Weighted() []WeightedSection {
	all := []WeightedSection{
		{Name: "requirements", Text: s.Requirements, Weight: RequirementsWeight},
		{Name: "qualifications", Text: s.Qualifications, Weight: QualificationsWeight},
		{Name: "responsibilities", Text: s.Responsibilities, Weight: ResponsibilitiesWeight},
	}

	out := make([]WeightedSection, 0, len(all))
	for _, ws := range all {
		if ws.Text != "" {
			out = append(out, ws)
		}
	}
	return out
}

// ExtractJobDescription returns the text between "Job Description" and the
// following "Targeted Clusters". Without a start marker the whole text is
// used; without an end marker the description runs to the end.
func ExtractJobDescription(text string) string {
	start := strings.Index(text, descriptionStart)
	if start == -1 {
		return strings.TrimSpace(text)
	}

	body := text[start+len(descriptionStart):]
	if end := strings.Index(body, descriptionEnd); end != -1 {
		body = body[:end]
	}

	return strings.TrimSpace(body)
}

// ExtractJobSections splits an overview into its description and the
// optional requirements, qualifications and responsibilities sections.
func ExtractJobSections(text string) Sections {
	return Sections{
		Description:      ExtractJobDescription(text),
		Requirements:     extractSection(text, requirementsHeaders),
		Qualifications:   extractSection(text, qualificationsHeaders),
		Responsibilities: extractSection(text, responsibilitiesHeaders),
	}
}

// extractSection returns the body after the first heading present in text,
// up to the nearest following section label
func extractSection(text string, headers []string) string {
	for _, header := range headers {
		idx := strings.Index(text, header)
		if idx == -1 {
			continue
		}

		body := text[idx+len(header):]
		end := len(body)
		for _, label := range sectionEndLabels {
			if i := strings.Index(body, label); i != -1 && i < end {
				end = i
			}
		}

		return strings.TrimSpace(strings.TrimLeft(body[:end], ":-– \t\r\n"))
	}

	return ""
}
