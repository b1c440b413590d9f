package tasks

import "strings"

// TemplateKind names the canned outreach templates.
type TemplateKind string

const (
	TemplateInquiry     TemplateKind = "inquiry"
	TemplateAdmission   TemplateKind = "admission"
	TemplateScholarship TemplateKind = "scholarship"
)

// TemplateKinds lists the canned templates in menu order.
var TemplateKinds = []TemplateKind{TemplateInquiry, TemplateAdmission, TemplateScholarship}

const inquiryTemplate = `Dear Professor,

I hope this email finds you well. I am writing to inquire about the [Program Name] program at [University Name].

I am very interested in pursuing my master's degree in this field and would like to learn more about:
- Program requirements and application process
- Course curriculum and structure
- Research opportunities
- Career prospects after graduation

I would greatly appreciate any information you could provide about the program and the application process.

Thank you for your time and consideration.

Best regards,
[Your Name]`

const admissionTemplate = `Dear Admissions Committee,

I am writing to inquire about the admission requirements for the [Program Name] program at [University Name].

I am particularly interested in understanding:
- Academic requirements and prerequisites
- Application deadlines
- Required documents
- English language proficiency requirements
- Tuition fees and payment options

I have completed my bachelor's degree in [Your Field] and am eager to continue my studies at your prestigious institution.

Could you please provide me with detailed information about the admission process?

Thank you for your assistance.

Sincerely,
[Your Name]`

const scholarshipTemplate = `Dear Scholarship Committee,

I hope this message finds you well. I am writing to inquire about scholarship opportunities for international students in the [Program Name] program at [University Name].

I am very interested in pursuing my master's degree at your institution, but I would like to explore available financial aid options, including:
- Merit-based scholarships
- Need-based financial aid
- Research assistantships
- Teaching assistantships
- External funding opportunities

I am committed to academic excellence and would be grateful for any information about scholarship programs that might be available to me.

Thank you for considering my inquiry.

Best regards,
[Your Name]`

// Template returns the canned body for a template kind.
func Template(kind TemplateKind) (string, bool) {
	switch kind {
	case TemplateInquiry:
		return inquiryTemplate, true
	case TemplateAdmission:
		return admissionTemplate, true
	case TemplateScholarship:
		return scholarshipTemplate, true
	default:
		return "", false
	}
}

// RenderTemplate fills the program and university placeholders of a
// canned template. The [Your Name] and [Your Field] placeholders are
// left for the sender.
func RenderTemplate(kind TemplateKind, programName, universityName string) (string, bool) {
	body, ok := Template(kind)
	if !ok {
		return "", false
	}

	body = strings.ReplaceAll(body, "[Program Name]", programName)
	body = strings.ReplaceAll(body, "[University Name]", universityName)
	return body, true
}
