// Package github reads commits and trees through the GitHub REST API.
package github

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/tidwall/gjson"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/source"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultArchiveURL = "https://github.com"

	// pageSize is the largest page the commits endpoint serves.
	pageSize = 100
)

// Options configures a Source.
type Options struct {
	Owner      string
	Repo       string
	User       string // basic auth user, only used together with Token
	Token      string
	BaseURL    string
	ArchiveURL string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Source implements source.Source over the GitHub API.
type Source struct {
	opts   Options
	client *http.Client
	Logger *slog.Logger
}

var _ source.Source = (*Source)(nil)

// New creates a Source for owner/repo.
func New(opts Options) *Source {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ArchiveURL == "" {
		opts.ArchiveURL = DefaultArchiveURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.ArchiveURL = strings.TrimRight(opts.ArchiveURL, "/")

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{opts: opts, client: client, Logger: logger}
}

// ParseRepo splits "owner/name". A bare name uses defaultOwner.
func ParseRepo(repo, defaultOwner string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		owner, name = defaultOwner, repo
	}
	if owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	return owner, name, nil
}

func (s *Source) Repo() string {
	return s.opts.Repo
}

func (s *Source) repoPath() string {
	return "/repos/" + url.PathEscape(s.opts.Owner) + "/" + url.PathEscape(s.opts.Repo)
}

// APIError is a non-successful API response.
type APIError struct {
	URL     string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == source.ErrNotFound && e.Status == http.StatusNotFound
}

func (s *Source) do(ctx context.Context, rawURL string, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	// a user without a token stays anonymous
	switch {
	case s.opts.Token == "":
	case s.opts.User != "":
		req.SetBasicAuth(s.opts.User, s.opts.Token)
	default:
		req.Header.Set("Authorization", "Bearer "+s.opts.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{URL: rawURL, Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

func (s *Source) getJSON(ctx context.Context, apiPath string, query url.Values) (gjson.Result, error) {
	rawURL := s.opts.BaseURL + apiPath
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	s.Logger.Debug("github request", "url", rawURL)

	resp, err := s.do(ctx, rawURL, "application/vnd.github+json")
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", rawURL)
	}
	return gjson.ParseBytes(body), nil
}

// commitInfo reads the fields shared by the list and the single commit
// endpoints.
func (s *Source) commitInfo(r gjson.Result) commit.Info {
	return commit.Info{
		Repo:      s.opts.Repo,
		Hash:      r.Get("sha").String(),
		TreeHash:  r.Get("commit.tree.sha").String(),
		Date:      r.Get("commit.committer.date").String(),
		Message:   r.Get("commit.message").String(),
		Additions: int(r.Get("stats.additions").Int()),
		Deletions: int(r.Get("stats.deletions").Int()),
	}
}

// Commits pages through the commit list until a short page.
func (s *Source) Commits(ctx context.Context) ([]commit.Info, error) {
	var infos []commit.Info
	for page := 1; ; page++ {
		s.Logger.Debug("fetch commits", "repo", s.opts.Repo, "page", page)
		res, err := s.getJSON(ctx, s.repoPath()+"/commits", url.Values{
			"per_page": {fmt.Sprint(pageSize)},
			"page":     {fmt.Sprint(page)},
		})
		if err != nil {
			return nil, err
		}
		batch := res.Array()
		for _, r := range batch {
			infos = append(infos, s.commitInfo(r))
		}
		if len(batch) < pageSize {
			return infos, nil
		}
	}
}

func (s *Source) getCommit(ctx context.Context, rev string) (gjson.Result, error) {
	return s.getJSON(ctx, s.repoPath()+"/commits/"+url.PathEscape(rev), nil)
}

func (s *Source) CommitInfo(ctx context.Context, rev string) (commit.Info, error) {
	res, err := s.getCommit(ctx, rev)
	if err != nil {
		return commit.Info{}, err
	}
	return s.commitInfo(res), nil
}

func (s *Source) ChangedFiles(ctx context.Context, rev string) (commit.Info, []commit.FileChange, error) {
	res, err := s.getCommit(ctx, rev)
	if err != nil {
		return commit.Info{}, nil, err
	}

	files := res.Get("files").Array()
	changes := make([]commit.FileChange, 0, len(files))
	for _, f := range files {
		changes = append(changes, commit.FileChange{
			Path:         f.Get("filename").String(),
			SHA:          f.Get("sha").String(),
			Status:       f.Get("status").String(),
			Additions:    int(f.Get("additions").Int()),
			Deletions:    int(f.Get("deletions").Int()),
			PreviousPath: f.Get("previous_filename").String(),
		})
	}
	return s.commitInfo(res), changes, nil
}

// TreeFiles lists the blobs of a tree with one recursive request.
func (s *Source) TreeFiles(ctx context.Context, treeHash string) ([]commit.TreeFile, error) {
	res, err := s.getJSON(ctx, s.repoPath()+"/git/trees/"+url.PathEscape(treeHash), url.Values{
		"recursive": {"1"},
	})
	if err != nil {
		return nil, err
	}
	if res.Get("truncated").Bool() {
		return nil, &source.TruncatedTreeError{Tree: treeHash}
	}

	var files []commit.TreeFile
	for _, e := range res.Get("tree").Array() {
		// "tree" entries are directories, "commit" entries submodules
		if e.Get("type").String() != "blob" {
			continue
		}
		files = append(files, commit.TreeFile{
			Path: e.Get("path").String(),
			SHA:  e.Get("sha").String(),
		})
	}
	return files, nil
}

// Export downloads the zip archive of the commit and extracts it into dest,
// dropping the archive's top-level directory.
func (s *Source) Export(ctx context.Context, info commit.Info, dest billy.Filesystem) error {
	rawURL := fmt.Sprintf("%s/%s/%s/archive/%s.zip", s.opts.ArchiveURL,
		url.PathEscape(s.opts.Owner), url.PathEscape(s.opts.Repo), url.PathEscape(info.Hash))
	s.Logger.Debug("download archive", "url", rawURL)

	resp, err := s.do(ctx, rawURL, "application/zip")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	return extract(data, dest)
}

func extract(data []byte, dest billy.Filesystem) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	for _, f := range zr.File {
		_, name, ok := strings.Cut(f.Name, "/")
		if !ok || name == "" {
			continue
		}
		name = path.Clean(name)
		if name == ".." || strings.HasPrefix(name, "../") || path.IsAbs(name) {
			return fmt.Errorf("archive entry %q escapes the destination", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := dest.MkdirAll(name, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, name, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, name string, dest billy.Filesystem) error {
	if dir := path.Dir(name); dir != "." {
		if err := dest.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer r.Close()

	w, err := dest.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return w.Close()
}
