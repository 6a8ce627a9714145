package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"gentype/resolver-go/pkg/catalog"
)

// FetchCatalog clones url at rev into a commit-keyed slot under cacheDir and
// returns the local path of the catalog document file inside the checkout.
// A slot that already exists is reused without touching the network.
func FetchCatalog(cacheDir, url, rev, file string) (string, error) {
	if cacheDir == "" || url == "" || file == "" {
		return "", fmt.Errorf("catalog fetch: cache directory, url, and file are required")
	}
	if rev == "" {
		rev = "HEAD"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}

	// A revision that is already a pinned slot needs no clone.
	existing := filepath.Join(cacheDir, sanitizeSegment(rev))
	if _, err := os.Stat(existing); err == nil {
		return documentPath(existing, file)
	}

	tmpDir, err := os.MkdirTemp(cacheDir, "catalog-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		Depth:             0,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("catalog fetch: git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("catalog fetch: resolve revision %s: %w", rev, err)
	}

	targetDir := filepath.Join(cacheDir, sanitizeSegment(hash.String()))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return documentPath(targetDir, file)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("catalog fetch: git checkout %s: %w", rev, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return documentPath(targetDir, file)
}

// LoadRemoteCatalog fetches a catalog document from a git repository and
// loads it.
func LoadRemoteCatalog(cacheDir, url, rev, file string) (*catalog.Catalog, error) {
	path, err := FetchCatalog(cacheDir, url, rev, file)
	if err != nil {
		return nil, err
	}
	return LoadCatalog(path)
}

func documentPath(checkoutDir, file string) (string, error) {
	path := filepath.Join(checkoutDir, filepath.FromSlash(file))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("catalog fetch: document %s missing from checkout: %w", file, err)
	}
	return path, nil
}

// sanitizeSegment keeps cache slot names filesystem-safe.
func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(segment)
}
