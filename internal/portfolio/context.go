package portfolio

import (
	"fmt"
	"strconv"
	"strings"
)

// Section kinds used by Sections.
const (
	SectionProfile      = "profile"
	SectionSkills       = "skills"
	SectionExperience   = "experience"
	SectionOrganization = "organization"
	SectionProject      = "project"
)

// Section is a self-contained slice of the portfolio used for retrieval.
type Section struct {
	// ID is stable across restarts as long as the data keeps its ids.
	ID    string
	Kind  string
	Title string
	Text  string
}

// ContextHeader is the opening instruction of the assistant context.
func (p *Portfolio) ContextHeader() string {
	return fmt.Sprintf("You are the AI assistant for %s's portfolio.\nUse the following data as your reference:", p.Profile.Name)
}

// ContextClosing is the final instruction of the assistant context.
func (p *Portfolio) ContextClosing() string {
	if p.Assistant.Closing != "" {
		return p.Assistant.Closing
	}
	return "Answer professionally."
}

// ResumeContext assembles the fixed system context sent with every chat question.
func (p *Portfolio) ResumeContext() string {
	var b strings.Builder

	b.WriteString(p.ContextHeader())
	b.WriteString("\n\n")
	b.WriteString(p.profileText())
	b.WriteString("\n\n")
	b.WriteString(p.skillsText())
	b.WriteString("\n\nWork experience:\n")
	for _, e := range p.Experiences {
		b.WriteString(experienceLine(e))
		b.WriteString("\n")
	}
	b.WriteString("\nOrganizations:\n")
	for _, o := range p.Organizations {
		b.WriteString(organizationLine(o))
		b.WriteString("\n")
	}
	b.WriteString("\nPortfolio projects:\n")
	for _, proj := range p.Projects {
		b.WriteString(projectLine(proj))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.ContextClosing())

	return b.String()
}

// Sections splits the portfolio into retrievable pieces: the profile, the
// skill list, and one section per experience, organization and project.
func (p *Portfolio) Sections() []Section {
	sections := []Section{
		{ID: SectionProfile, Kind: SectionProfile, Title: p.Profile.Name, Text: p.profileText()},
	}
	if len(p.Skills) > 0 {
		sections = append(sections, Section{ID: SectionSkills, Kind: SectionSkills, Title: "Skills", Text: p.skillsText()})
	}
	for _, e := range p.Experiences {
		sections = append(sections, Section{
			ID:    SectionExperience + "/" + strconv.Itoa(e.ID),
			Kind:  SectionExperience,
			Title: e.Role + " at " + e.Company,
			Text:  "Work experience:\n" + experienceLine(e),
		})
	}
	for _, o := range p.Organizations {
		sections = append(sections, Section{
			ID:    SectionOrganization + "/" + strconv.Itoa(o.ID),
			Kind:  SectionOrganization,
			Title: o.Role + " at " + o.Name,
			Text:  "Organization:\n" + organizationLine(o),
		})
	}
	for _, proj := range p.Projects {
		sections = append(sections, Section{
			ID:    SectionProject + "/" + strconv.Itoa(proj.ID),
			Kind:  SectionProject,
			Title: proj.Title,
			Text:  "Portfolio project:\n" + projectLine(proj),
		})
	}
	return sections
}

func (p *Portfolio) profileText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Profile.Name)
	fmt.Fprintf(&b, "Role: %s\n", p.Profile.Role)
	fmt.Fprintf(&b, "About: %s\n", p.Profile.About)
	if p.Profile.Education != "" {
		fmt.Fprintf(&b, "Education: %s\n", p.Profile.Education)
	}
	fmt.Fprintf(&b, "Interests: %s", strings.Join(p.Profile.Bio, " "))
	return b.String()
}

func (p *Portfolio) skillsText() string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return "Skills: " + strings.Join(names, ", ")
}

func experienceLine(e Experience) string {
	return fmt.Sprintf("- %s at %s (%s): %s", e.Role, e.Company, e.Period, strings.Join(e.Description, " "))
}

func organizationLine(o Organization) string {
	return fmt.Sprintf("- %s at %s (%s): %s", o.Role, o.Name, o.Period, o.Description)
}

func projectLine(p Project) string {
	return fmt.Sprintf("- %s (%s): %s", p.Title, strings.Join(p.Tags, ", "), p.Details)
}
