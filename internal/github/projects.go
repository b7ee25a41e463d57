package github

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"portfolio-ai/internal/portfolio"
)

// DefaultProjectLimit is how many repositories are turned into project cards.
const DefaultProjectLimit = 6

const (
	imageData    = "https://images.unsplash.com/photo-1551288049-bebda4e38f71?auto=format&fit=crop&q=80&w=800"
	imageCharts  = "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&q=80&w=800"
	imageCoding  = "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?auto=format&fit=crop&q=80&w=800"
	imageAI      = "https://images.unsplash.com/photo-1555949963-aa79dcee981c?auto=format&fit=crop&q=80&w=800"
	imageDefault = "https://images.unsplash.com/photo-1518770660439-4636190af475?auto=format&fit=crop&q=80&w=800"
)

// SelectProjects keeps original, described repositories, orders them by stars
// and maps the first limit of them to project cards.
func SelectProjects(repos []Repo, limit int) []portfolio.Project {
	selected := make([]Repo, 0, len(repos))
	for _, r := range repos {
		if r.Forks == 0 && strings.TrimSpace(r.Description) != "" {
			selected = append(selected, r)
		}
	}
	slices.SortStableFunc(selected, func(a, b Repo) int {
		return cmp.Compare(b.Stars, a.Stars)
	})
	if limit >= 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	projects := make([]portfolio.Project, 0, len(selected))
	for _, r := range selected {
		projects = append(projects, ToProject(r))
	}
	return projects
}

// ToProject maps a repository to a project card.
func ToProject(r Repo) portfolio.Project {
	tags := r.Topics
	if len(tags) == 0 {
		lang := r.Language
		if lang == "" {
			lang = "Code"
		}
		tags = []string{lang}
	}

	return portfolio.Project{
		ID:            int(r.ID),
		Title:         projectTitle(r.Name),
		Description:   r.Description,
		Tags:          tags,
		ImageURL:      projectImage(r.Language, r.Topics),
		Link:          r.HTMLURL,
		Details:       projectDetails(r),
		Stars:         r.Stars,
		Forks:         r.Forks,
		Owner:         r.Owner.Login,
		RepoName:      r.Name,
		DefaultBranch: r.DefaultBranch,
		Language:      r.Language,
	}
}

func projectTitle(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}

func projectDetails(r Repo) string {
	if r.Language == "" {
		return fmt.Sprintf("Project %s. Has %d stars on GitHub.", r.Name, r.Stars)
	}
	return fmt.Sprintf("Project %s developed using %s. Has %d stars on GitHub.", r.Name, r.Language, r.Stars)
}

func projectImage(language string, topics []string) string {
	lang := strings.ToLower(language)
	topicText := strings.ToLower(strings.Join(topics, " "))

	switch {
	case strings.Contains(lang, "python") || strings.Contains(topicText, "data"):
		return imageData
	case strings.Contains(lang, "jupyter") || strings.Contains(topicText, "analysis"):
		return imageCharts
	case strings.Contains(lang, "javascript") || strings.Contains(lang, "typescript") || strings.Contains(lang, "html"):
		return imageCoding
	case strings.Contains(topicText, "learning") || strings.Contains(topicText, "ai"):
		return imageAI
	default:
		return imageDefault
	}
}
