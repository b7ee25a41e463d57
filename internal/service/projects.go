package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_github_client.go -package=mocks portfolio-ai/internal/service GitHubClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_project_service.go -package=mocks -mock_names=ProjectService=MockProjectService portfolio-ai/internal/service ProjectService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/github"
	"portfolio-ai/internal/portfolio"
)

// GitHubClient is the part of the GitHub API the project service needs.
type GitHubClient interface {
	ListRepos(ctx context.Context, user string) ([]github.Repo, error)
	FindNotebook(ctx context.Context, owner, repo string) (string, error)
	RawURL(owner, repo, branch, filePath string) string
}

// ProjectService serves the project catalogue.
type ProjectService interface {
	// Portfolio returns the static portfolio data.
	Portfolio() *portfolio.Portfolio
	// List returns the static projects.
	List(ctx context.Context) []portfolio.Project
	// Get returns one static project.
	Get(ctx context.Context, id int) (portfolio.Project, error)
	// NotebookRef returns the notebook reference of a static project.
	NotebookRef(ctx context.Context, id int) (string, error)
	// GitHubProjects derives project cards from a user's repositories. An
	// empty user selects the configured default. Failures yield an empty list.
	GitHubProjects(ctx context.Context, user string) ([]portfolio.Project, error)
	// GitHubNotebookRef returns the raw URL of the first notebook of a repository.
	GitHubNotebookRef(ctx context.Context, owner, repo, branch string) (string, error)
}

// projectService implements ProjectService.
type projectService struct {
	data        *portfolio.Portfolio
	github      GitHubClient
	defaultUser string
	limit       int
}

// NewProjectService creates a ProjectService. github may be nil to disable
// GitHub discovery. An empty defaultUser falls back to the profile's username.
func NewProjectService(data *portfolio.Portfolio, gh GitHubClient, defaultUser string) ProjectService {
	if defaultUser == "" {
		defaultUser = data.Profile.GithubUsername
	}
	return &projectService{
		data:        data,
		github:      gh,
		defaultUser: defaultUser,
		limit:       github.DefaultProjectLimit,
	}
}

func (s *projectService) Portfolio() *portfolio.Portfolio {
	return s.data
}

func (s *projectService) List(ctx context.Context) []portfolio.Project {
	return s.data.Projects
}

func (s *projectService) Get(ctx context.Context, id int) (portfolio.Project, error) {
	p, ok := s.data.ProjectByID(id)
	if !ok {
		return portfolio.Project{}, WrapError(ErrNotFound, fmt.Sprintf("project %d", id))
	}
	return p, nil
}

func (s *projectService) NotebookRef(ctx context.Context, id int) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !p.HasNotebook() {
		return "", WrapError(ErrNotFound, fmt.Sprintf("project %d has no notebook", id))
	}
	return p.NotebookPath, nil
}

func (s *projectService) GitHubProjects(ctx context.Context, user string) ([]portfolio.Project, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if user == "" {
		user = s.defaultUser
	}
	if s.github == nil || user == "" {
		return []portfolio.Project{}, nil
	}

	repos, err := s.github.ListRepos(ctx, user)
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch github repositories", "user", user, "error", err)
		return []portfolio.Project{}, nil
	}

	projects := github.SelectProjects(repos, s.limit)
	logger.DebugContext(ctx, "github projects selected", "user", user, "repos", len(repos), "projects", len(projects))
	return projects, nil
}

func (s *projectService) GitHubNotebookRef(ctx context.Context, owner, repo, branch string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(owner) == "" {
		return "", &ValidationError{Field: "owner", Message: "cannot be empty"}
	}
	if strings.TrimSpace(repo) == "" {
		return "", &ValidationError{Field: "repo", Message: "cannot be empty"}
	}
	if s.github == nil {
		return "", WrapError(ErrNotFound, "github discovery is disabled")
	}

	path, err := s.github.FindNotebook(ctx, owner, repo)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return "", WrapError(ErrNotFound, fmt.Sprintf("repository %s/%s", owner, repo))
		}
		logger.ErrorContext(ctx, "failed to look up notebook", "owner", owner, "repo", repo, "error", err)
		return "", fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	if path == "" {
		return "", WrapError(ErrNotFound, fmt.Sprintf("no notebook in %s/%s", owner, repo))
	}
	return s.github.RawURL(owner, repo, branch, path), nil
}
