// Command autoresolve drives a three-way structural merge of a document
// stored as JSON in a git repository: it loads the base/local/remote
// revisions, runs the autoresolve engine over their diffs, writes back
// whatever residual conflicts remain, and logs the run to the project's
// conflict log.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashfield-docs/autoresolve/internal/app"
	"github.com/ashfield-docs/autoresolve/internal/conflictlog"
	"github.com/ashfield-docs/autoresolve/internal/docsrc"
	"github.com/ashfield-docs/autoresolve/internal/docvalue"
	"github.com/ashfield-docs/autoresolve/internal/git"
	"github.com/ashfield-docs/autoresolve/internal/index"
	"github.com/ashfield-docs/autoresolve/internal/logging"
	"github.com/ashfield-docs/autoresolve/internal/resolve"
	"github.com/ashfield-docs/autoresolve/internal/store"
	"github.com/ashfield-docs/autoresolve/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "merge":
		err = runMerge(os.Args[2:])
	case "show-residual":
		err = runShowResidual(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "attach":
		err = runAttach(os.Args[2:])
	case "add-node":
		err = runAddNode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "autoresolve:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  autoresolve merge --repo DIR --base REF --local REF --remote REF [--out FILE]
  autoresolve show-residual --repo DIR --run ID
  autoresolve init --repo DIR
  autoresolve attach --repo DIR --file PATH
  autoresolve add-node --repo DIR --parent ID --name NAME`)
}

// runInit lays out a new project (project.json, nodes/, attachments/, a Git
// repository) the way store.ProjectStore expects to find one, so later
// merge/attach invocations against --repo DIR have real on-disk state to
// read instead of docsrc.LoadDocument hitting an empty tree.
func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	repo := fs.String("repo", ".", "path to the new project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ps, err := store.NewProjectStore(*repo)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer ps.Close()

	if _, err := ps.CreateProject(nil); err != nil {
		return fmt.Errorf("init: create project: %w", err)
	}

	gitRepo, err := git.NewRepository(git.RepositoryConfig{Path: *repo})
	if err != nil {
		return fmt.Errorf("init: open git repository: %w", err)
	}
	defer gitRepo.Close()

	if !gitRepo.IsRepository() {
		if env := gitRepo.Init(context.Background()); env.Code != "" {
			return fmt.Errorf("init: git init: %s: %s", env.Code, env.Message)
		}
	}

	fmt.Println("initialized project at", *repo)
	return nil
}

// runAttach stores a file as a content-addressed attachment, routing it
// through Git LFS via internal/git when it crosses the attachment store's
// size threshold.
func runAttach(args []string) error {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	repo := fs.String("repo", ".", "path to the project")
	file := fs.String("file", "", "file to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("attach: --file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("attach: open %s: %w", *file, err)
	}
	defer f.Close()

	gitRepo, err := git.NewRepository(git.RepositoryConfig{Path: *repo})
	if err != nil {
		return fmt.Errorf("attach: open git repository: %w", err)
	}
	defer gitRepo.Close()

	as := store.NewAttachmentStore(*repo).WithGitRepository(gitRepo)
	attachment, err := as.Store(f, filepath.Base(*file))
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}

	fmt.Printf("stored attachment %s (%d bytes, lfs=%v)\n",
		attachment.Hash, attachment.Size, as.IsLFSFile(attachment.Size))
	return nil
}

// nodeStore wires a NodeStore with the no-op index.Manager the way every
// store package caller does (internal/index.Manager is a deliberate no-op;
// see its doc comment).
func nodeStore(repoPath string) (*store.NodeStore, error) {
	idx, err := index.NewManager(repoPath)
	if err != nil {
		return nil, err
	}
	return store.NewNodeStore(repoPath, idx), nil
}

// runAddNode creates a node under an existing parent, so a project authored
// outside autoresolve (or grown via repeated add-node calls) has more than
// the single root node --repo's LoadDocument will read on the next merge.
func runAddNode(args []string) error {
	fs := flag.NewFlagSet("add-node", flag.ExitOnError)
	repo := fs.String("repo", ".", "path to the project")
	parent := fs.String("parent", "", "parent node id")
	name := fs.String("name", "", "new node name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *parent == "" || *name == "" {
		return fmt.Errorf("add-node: --parent and --name are both required")
	}

	ns, err := nodeStore(*repo)
	if err != nil {
		return fmt.Errorf("add-node: %w", err)
	}

	node, err := ns.CreateNode(&types.CreateNodeRequest{ParentID: *parent, Name: *name})
	if err != nil {
		return fmt.Errorf("add-node: %w", err)
	}

	fmt.Println("created node", node.ID)
	return nil
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	repo := fs.String("repo", ".", "path to the git repository")
	base := fs.String("base", "", "base revision")
	local := fs.String("local", "", "local revision")
	remote := fs.String("remote", "", "remote revision")
	out := fs.String("out", "", "file to write the resolved document JSON (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *base == "" || *local == "" || *remote == "" {
		return fmt.Errorf("merge: --base, --local and --remote are all required")
	}

	cfg, err := app.LoadOrDefault(filepath.Join(*repo, ".autoresolve", "config.json"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	baseDoc, env := docsrc.LoadDocument(*repo, *base)
	if env.Code != "" {
		return fmt.Errorf("load base: %w", env)
	}
	localDoc, env := docsrc.LoadDocument(*repo, *local)
	if env.Code != "" {
		return fmt.Errorf("load local: %w", env)
	}
	remoteDoc, env := docsrc.LoadDocument(*repo, *remote)
	if env.Code != "" {
		return fmt.Errorf("load remote: %w", env)
	}

	localDiff, err := docvalue.Diff3(baseDoc, localDoc)
	if err != nil {
		return fmt.Errorf("diff base..local: %w", err)
	}
	remoteDiff, err := docvalue.Diff3(baseDoc, remoteDoc)
	if err != nil {
		return fmt.Errorf("diff base..remote: %w", err)
	}

	resolved, residualLocal, residualRemote, err := resolve.Autoresolve(
		baseDoc, localDiff, remoteDiff, cfg.Strategies, "", log,
	)
	if err != nil {
		return fmt.Errorf("autoresolve: %w", err)
	}

	store, storeErr := conflictlog.Open(*repo)
	if storeErr == nil {
		defer store.Close()
		runID, startErr := store.StartRun(*repo, *base, *local, *remote)
		if startErr == nil {
			status := "resolved"
			if len(residualLocal) > 0 || len(residualRemote) > 0 {
				status = "residual"
			}
			_ = store.FinishRun(runID, status, residualLocal, residualRemote)
		}
	}

	resolvedJSON, err := docvalue.ToJSON(resolved)
	if err != nil {
		return fmt.Errorf("encode resolved document: %w", err)
	}
	var pretty map[string]any
	if err := json.Unmarshal(resolvedJSON, &pretty); err != nil {
		return fmt.Errorf("decode resolved document: %w", err)
	}
	out2, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("format resolved document: %w", err)
	}

	if *out == "" {
		fmt.Println(string(out2))
	} else if err := os.WriteFile(*out, out2, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	if len(residualLocal) > 0 || len(residualRemote) > 0 {
		fmt.Fprintf(os.Stderr, "autoresolve: %d local and %d remote residual conflicts remain\n",
			len(residualLocal), len(residualRemote))
	}
	return nil
}

func runShowResidual(args []string) error {
	fs := flag.NewFlagSet("show-residual", flag.ExitOnError)
	repo := fs.String("repo", ".", "path to the git repository")
	runID := fs.Int64("run", 0, "merge run id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == 0 {
		return fmt.Errorf("show-residual: --run is required")
	}

	store, err := conflictlog.Open(*repo)
	if err != nil {
		return fmt.Errorf("open conflict log: %w", err)
	}
	defer store.Close()

	entries, err := store.ResidualsForRun(*runID)
	if err != nil {
		return fmt.Errorf("read residuals: %w", err)
	}
	for _, e := range entries {
		fmt.Printf("%s %s %s %s\n", e.Side, e.Path, e.Op, e.JSON)
	}
	return nil
}

func newLogger(cfg *app.Config) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Logging.Level != "" {
		lc.Level = logging.LogLevel(cfg.Logging.Level)
	}
	if cfg.Logging.LogDirectory != "" {
		lc.LogDirectory = cfg.Logging.LogDirectory
	}
	lc.OutputConsole = cfg.Logging.OutputConsole || cfg.Logging.LogDirectory == ""
	lc.OutputFile = cfg.Logging.OutputFile
	return logging.NewLogger(lc)
}
