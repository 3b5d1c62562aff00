package git

import (
	"context"
	"time"

	"github.com/ashfield-docs/autoresolve/internal/errors"
)

// Repository is the hybrid CLI/go-git facade: fast read operations route
// through go-git, porcelain operations that need credentials or LFS route
// through the git CLI. repositoryRouter is the only implementation.
type Repository interface {
	IsRepository() bool
	Init(ctx context.Context) errors.Envelope

	GetRemoteURL(remote string) (string, errors.Envelope)
	SetRemoteURL(remote, url string) errors.Envelope

	Status(ctx context.Context) (*Status, errors.Envelope)
	GetCurrentBranch(ctx context.Context) (string, errors.Envelope)
	GetCommitHistory(ctx context.Context, limit int) ([]Commit, errors.Envelope)

	Clone(ctx context.Context, url, path string) errors.Envelope
	Fetch(ctx context.Context, remote string) errors.Envelope
	Pull(ctx context.Context, remote, branch string) errors.Envelope
	Push(ctx context.Context, remote, branch string) errors.Envelope

	Add(ctx context.Context, paths []string) errors.Envelope
	Commit(ctx context.Context, message string, author *Author) (*Commit, errors.Envelope)
	CreateTag(ctx context.Context, name, message string) errors.Envelope
	ListTags(ctx context.Context) ([]Tag, errors.Envelope)

	Checkout(ctx context.Context, ref string) errors.Envelope

	InitLFS(ctx context.Context) errors.Envelope
	IsLFSEnabled(ctx context.Context) (bool, errors.Envelope)
	TrackLFSPattern(ctx context.Context, pattern string) errors.Envelope

	GetDiff(ctx context.Context, from, to string) (*Diff, errors.Envelope)

	Close() error
}

// RepositoryConfig selects where a Repository lives and which operations
// prefer the CLI over go-git; PreferCLI/PreferGoGit default per
// newRepositoryRouter if left nil.
type RepositoryConfig struct {
	Path          string
	GitPath       string
	PreferCLI     []string
	PreferGoGit   []string
	DefaultAuthor *Author
}

// NewRepository opens (or prepares to init) the repository at config.Path,
// routing operations between the git CLI and go-git per config.
func NewRepository(config RepositoryConfig) (Repository, error) {
	return newRepositoryRouter(config)
}

type Status struct {
	Branch          string   `json:"branch"`
	IsClean         bool     `json:"isClean"`
	AheadBy         int      `json:"aheadBy"`
	BehindBy        int      `json:"behindBy"`
	StagedFiles     []string `json:"stagedFiles"`
	ModifiedFiles   []string `json:"modifiedFiles"`
	UntrackedFiles  []string `json:"untrackedFiles"`
	ConflictedFiles []string `json:"conflictedFiles"`
}

type Commit struct {
	Hash      string `json:"hash"`
	ShortHash string `json:"shortHash"`
	Message   string `json:"message"`
	Author    Author `json:"author"`
}

type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Tag struct {
	Name       string    `json:"name"`
	Hash       string    `json:"hash"`
	Message    string    `json:"message,omitempty"`
	Date       time.Time `json:"date"`
	IsSnapshot bool      `json:"isSnapshot"`
}

type Diff struct {
	From  string     `json:"from"`
	To    string     `json:"to"`
	Files []FileDiff `json:"files"`
}

type FileDiff struct {
	Path      string     `json:"path"`
	OldPath   string     `json:"oldPath,omitempty"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
}

type FileStatus string

const (
	FileStatusAdded    FileStatus = "added"
	FileStatusModified FileStatus = "modified"
	FileStatusDeleted  FileStatus = "deleted"
	FileStatusRenamed  FileStatus = "renamed"
	FileStatusCopied   FileStatus = "copied"
)
