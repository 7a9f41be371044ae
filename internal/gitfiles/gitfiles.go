package gitfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Lister lists files tracked by git.
type Lister struct {
	git string
	dir string
}

// NewLister creates a lister running the given git executable in dir. An
// empty dir means the current working directory.
func NewLister(git, dir string) *Lister {
	if git == "" {
		git = "git"
	}
	return &Lister{git: git, dir: dir}
}

// Pathspecs turns extensions (".resx") into git pathspecs ("*.resx").
func Pathspecs(extensions []string) []string {
	specs := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		specs = append(specs, "*"+ext)
	}
	return specs
}

// List returns the tracked files matching the pathspecs, in git's order.
func (l *Lister) List(ctx context.Context, pathspecs []string) ([]string, error) {
	args := append([]string{"ls-files", "-z", "--"}, pathspecs...)
	cmd := exec.CommandContext(ctx, l.git, args...)
	cmd.Dir = l.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	files := splitNUL(output)
	log.Debug().Int("files", len(files)).Strs("pathspecs", pathspecs).Msg("Listed tracked files")
	return files, nil
}

// splitNUL splits NUL-terminated git output, dropping empty entries.
func splitNUL(output []byte) []string {
	var files []string
	for _, part := range bytes.Split(output, []byte{0}) {
		if len(part) > 0 {
			files = append(files, string(part))
		}
	}
	return files
}
