// Package gitlog reads commit metadata for event definitions from a git
// checkout by running the git binary.
package gitlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glow/pkg/definitions"
)

// prettyFormat is commit date, author name and hash.
const prettyFormat = "--pretty=format:%cs|%an|%H"

// Commit identifies a commit touching an event definition.
type Commit struct {
	Date   string `yaml:"date"`
	Author string `yaml:"author"`
	Hash   string `yaml:"hash"`
}

// Link returns the web URL of the commit under base, e.g.
// https://github.com/org/repo. It is empty for an empty commit.
func (c Commit) Link(base string) string {
	if c.Hash == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/commit/" + c.Hash
}

// Repo is a local git checkout.
type Repo struct {
	Dir    string
	Logger *log.Logger
}

// Open returns the checkout at dir.
func Open(dir string, logger *log.Logger) *Repo {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Repo{Dir: dir, Logger: logger}
}

// Clone clones url into dir, removing anything already at dir.
func Clone(ctx context.Context, url, dir string, logger *log.Logger) (*Repo, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if _, err := run(ctx, "", "clone", "--quiet", url, dir); err != nil {
		return nil, err
	}
	return Open(dir, logger), nil
}

// Created returns the oldest commit that added or removed key in file.
func (r *Repo) Created(ctx context.Context, key, file string) (Commit, error) {
	out, err := run(ctx, r.Dir, "log", "--reverse", prettyFormat, "-S"+key, "--", file)
	if err != nil {
		return Commit{}, err
	}
	return parseFirst(out), nil
}

// LastModified returns the newest commit touching lines
// start..start+length of file, a window from [definitions.EventLines]. An
// invalid window is logged and yields an empty commit.
func (r *Repo) LastModified(ctx context.Context, start, length, total int, file string) (Commit, error) {
	if !definitions.ValidWindow(start, length, total) {
		r.Logger.Warn("invalid log range", "file", file, "start", start, "length", length, "lines", total)
		return Commit{}, nil
	}
	out, err := run(ctx, r.Dir, "log", prettyFormat, "-s", fmt.Sprintf("-L%d,+%d:%s", start, length, file))
	if err != nil {
		return Commit{}, err
	}
	return parseFirst(out), nil
}

func parseFirst(out []byte) Commit {
	line, _, _ := strings.Cut(string(out), "\n")
	parts := strings.SplitN(strings.TrimSpace(line), "|", 3)
	if len(parts) != 3 {
		return Commit{}
	}
	return Commit{Date: parts[0], Author: parts[1], Hash: parts[2]}
}

func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git binary not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
