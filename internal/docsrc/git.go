// Package docsrc loads the three document revisions an autoresolve run
// needs (base, local, remote) from a git repository without checking out a
// working tree, and converts them into the generic docvalue.Value shape the
// engine operates on.
package docsrc

import (
	"encoding/json"
	"path/filepath"
	"strings"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ashfield-docs/autoresolve/internal/docvalue"
	"github.com/ashfield-docs/autoresolve/internal/errors"
	"github.com/ashfield-docs/autoresolve/internal/store"
	"github.com/ashfield-docs/autoresolve/internal/types"
)

// LoadDocument reads project.json and nodes/*.json out of repoPath at ref
// and assembles a single mapping {"project": {...}, "nodes": {<id>: {...}}}
// as a docvalue.Value, the shape the resolve engine merges (spec §3.1: "the
// document a run operates on is whatever nested mapping/sequence/scalar
// tree the caller hands it").
func LoadDocument(repoPath, ref string) (docvalue.Value, errors.Envelope) {
	repo, err := ggit.PlainOpen(repoPath)
	if err != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrInvalidPath, "failed to open repository", err)
	}

	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrNotFound, "failed to resolve ref", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrStorageFailure, "failed to get tree", err)
	}

	readJSON := func(path string, v any) error {
		file, err := tree.File(path)
		if err != nil {
			return err
		}
		rc, err := file.Blob.Reader()
		if err != nil {
			return err
		}
		defer rc.Close()
		return json.NewDecoder(rc).Decode(v)
	}

	var proj types.Project
	_ = readJSON("project.json", &proj)
	if proj.RootID != "" {
		if validationErrors := store.ValidateProject(&proj); len(validationErrors) > 0 {
			return docvalue.Value{}, errors.FromValidationErrors(validationErrors)
		}
	}

	nodes := make(map[string]*types.Node)
	walkErr := tree.Files().ForEach(func(f *object.File) error {
		if f == nil {
			return nil
		}
		if !strings.HasPrefix(f.Name, "nodes/") || filepath.Ext(f.Name) != ".json" {
			return nil
		}
		rc, err := f.Blob.Reader()
		if err != nil {
			return nil // tolerate unreadable blob
		}
		defer rc.Close()
		var n types.Node
		if err := json.NewDecoder(rc).Decode(&n); err != nil {
			return nil // tolerate corrupt/malformed node file
		}
		if n.ID != "" {
			nn := n
			nodes[n.ID] = &nn
		}
		return nil
	})
	if walkErr != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrStorageFailure, "failed to walk tree", walkErr)
	}

	// Every node read out of the tree must satisfy the same invariants the
	// working-tree NodeStore enforces (internal/store/validate.go), so a
	// merge never operates on a document the live store would have rejected.
	for _, n := range nodes {
		if validationErrors := store.ValidateNode(n); len(validationErrors) > 0 {
			return docvalue.Value{}, errors.FromValidationErrors(validationErrors)
		}
	}

	return toDocumentValue(proj, nodes)
}

// toDocumentValue round-trips the typed project/node records through JSON
// into a docvalue.Value tree, since the engine's data model (spec §3.1) only
// ever sees untyped mapping/sequence/scalar nodes.
func toDocumentValue(proj types.Project, nodes map[string]*types.Node) (docvalue.Value, errors.Envelope) {
	projBytes, err := json.Marshal(proj)
	if err != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrInvalidInput, "failed to encode project", err)
	}
	projValue, err := docvalue.FromJSON(projBytes)
	if err != nil {
		return docvalue.Value{}, errors.WrapError(errors.ErrInvalidInput, "failed to decode project", err)
	}

	nodeFields := make(map[string]docvalue.Value, len(nodes))
	for id, n := range nodes {
		nb, err := json.Marshal(n)
		if err != nil {
			return docvalue.Value{}, errors.WrapError(errors.ErrInvalidInput, "failed to encode node "+id, err)
		}
		nv, err := docvalue.FromJSON(nb)
		if err != nil {
			return docvalue.Value{}, errors.WrapError(errors.ErrInvalidInput, "failed to decode node "+id, err)
		}
		nodeFields[id] = nv
	}

	doc := docvalue.NewMapping(map[string]docvalue.Value{
		"project": projValue,
		"nodes":   docvalue.NewMapping(nodeFields),
	})
	return doc, errors.Envelope{}
}

// resolveCommit resolves ref to a commit, falling back through tag
// dereference and raw hash lookup the way loadSnapshot does for the
// semantic differ (internal/diff/semantic/loader.go).
func resolveCommit(repo *ggit.Repository, ref string) (*object.Commit, error) {
	if ref == "" {
		h, err := repo.Head()
		if err != nil {
			return nil, err
		}
		return repo.CommitObject(h.Hash())
	}
	if hash, err := repo.ResolveRevision(plumbing.Revision(ref)); err == nil && hash != nil {
		if c, err := repo.CommitObject(*hash); err == nil {
			return c, nil
		}
		if tagObj, err := repo.TagObject(*hash); err == nil && tagObj != nil {
			if c, err := repo.CommitObject(tagObj.Target); err == nil {
				return c, nil
			}
		}
	}
	if h := plumbing.NewHash(ref); !h.IsZero() {
		if c, err := repo.CommitObject(h); err == nil {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrNotFound, "unable to resolve commit")
}
