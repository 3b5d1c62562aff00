package docsrc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// commitFile writes content at path (relative to the worktree) and commits
// it, returning the new commit hash string.
func commitFile(t *testing.T, repoPath, relPath, content string) string {
	t.Helper()

	repo, err := ggit.PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	full := filepath.Join(repoPath, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := wt.Add(relPath); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := wt.Commit("update "+relPath, &ggit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// rootID and childID are stand-ins for UUIDv7 values: internal/store's
// validation (now exercised by LoadDocument) requires project/node ids to
// be well-formed UUIDs, not arbitrary slugs.
const (
	rootID  = "018dcb6e-6b3a-7000-8a00-000000000001"
	childID = "018dcb6e-6b3a-7000-8a00-000000000002"
)

func TestLoadDocument_ReadsProjectAndNodesAtRef(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ggit.PlainInit(tmp, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	commitFile(t, tmp, "project.json", `{"rootId":"`+rootID+`","schemaVersion":1}`)
	baseHash := commitFile(t, tmp, "nodes/"+rootID+".json", `{"id":"`+rootID+`","name":"Root","children":["`+childID+`"]}`)
	commitFile(t, tmp, "nodes/"+childID+".json", `{"id":"`+childID+`","name":"Child"}`)
	headHash := commitFile(t, tmp, "nodes/"+rootID+".json", `{"id":"`+rootID+`","name":"Root renamed","children":["`+childID+`"]}`)

	doc, env := LoadDocument(tmp, headHash)
	if env.Code != "" {
		t.Fatalf("LoadDocument at head: %s: %s", env.Code, env.Message)
	}
	nodes, ok := doc.Map["nodes"]
	if !ok {
		t.Fatalf("expected a nodes key in the loaded document")
	}
	root, ok := nodes.Map[rootID]
	if !ok {
		t.Fatalf("expected root node in nodes")
	}
	if root.Map["name"].S != "Root renamed" {
		t.Fatalf("name = %q, want %q", root.Map["name"].S, "Root renamed")
	}
	if _, ok := nodes.Map[childID]; !ok {
		t.Fatalf("expected child node in nodes")
	}

	baseDoc, env := LoadDocument(tmp, baseHash)
	if env.Code != "" {
		t.Fatalf("LoadDocument at base: %s: %s", env.Code, env.Message)
	}
	baseRoot := baseDoc.Map["nodes"].Map[rootID]
	if baseRoot.Map["name"].S != "Root" {
		t.Fatalf("base name = %q, want %q", baseRoot.Map["name"].S, "Root")
	}
}

func TestLoadDocument_EmptyRefResolvesHead(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ggit.PlainInit(tmp, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	commitFile(t, tmp, "project.json", `{"rootId":"`+rootID+`","schemaVersion":1}`)

	doc, env := LoadDocument(tmp, "")
	if env.Code != "" {
		t.Fatalf("LoadDocument with empty ref: %s: %s", env.Code, env.Message)
	}
	proj := doc.Map["project"]
	if proj.Map["rootId"].S != rootID {
		t.Fatalf("rootId = %q, want %q", proj.Map["rootId"].S, rootID)
	}
}

func TestLoadDocument_UnresolvableRefErrors(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ggit.PlainInit(tmp, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	commitFile(t, tmp, "project.json", `{"rootId":"`+rootID+`","schemaVersion":1}`)

	if _, env := LoadDocument(tmp, "does-not-exist"); env.Code == "" {
		t.Fatalf("expected an error resolving a nonexistent ref")
	}
}

func TestLoadDocument_InvalidNodeIDFailsValidation(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ggit.PlainInit(tmp, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	commitFile(t, tmp, "project.json", `{"rootId":"`+rootID+`","schemaVersion":1}`)
	head := commitFile(t, tmp, "nodes/bad.json", `{"id":"not-a-uuid","name":"Bad"}`)

	if _, env := LoadDocument(tmp, head); env.Code == "" {
		t.Fatalf("expected LoadDocument to reject a node with a non-UUID id")
	}
}

func TestLoadDocument_InvalidRepoPathErrors(t *testing.T) {
	if _, env := LoadDocument(filepath.Join(t.TempDir(), "nope"), "HEAD"); env.Code == "" {
		t.Fatalf("expected an error opening a non-repository path")
	}
}
