package review

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ListAll returns every review under workdir, laid out as
// <owner>/<repo>/<pr>.prr, ordered by owner, repo and PR number. A missing
// workdir holds no reviews.
func ListAll(fsys afero.Fs, workdir string) ([]*Review, error) {
	owners, err := afero.ReadDir(fsys, workdir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading workdir: %w", err)
	}

	var reviews []*Review
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		repos, err := afero.ReadDir(fsys, filepath.Join(workdir, owner.Name()))
		if err != nil {
			continue
		}
		for _, repo := range repos {
			if !repo.IsDir() {
				continue
			}
			files, err := afero.ReadDir(fsys, filepath.Join(workdir, owner.Name(), repo.Name()))
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.IsDir() || filepath.Ext(f.Name()) != Extension {
					continue
				}
				num, err := strconv.Atoi(strings.TrimSuffix(f.Name(), Extension))
				if err != nil {
					return nil, fmt.Errorf("malformed review file name %s: %w",
						filepath.Join(workdir, owner.Name(), repo.Name(), f.Name()), err)
				}
				reviews = append(reviews, Open(fsys, workdir, owner.Name(), repo.Name(), num))
			}
		}
	}

	slices.SortFunc(reviews, func(a, b *Review) int {
		return cmp.Or(
			cmp.Compare(a.owner, b.owner),
			cmp.Compare(a.repo, b.repo),
			cmp.Compare(a.prNum, b.prNum),
		)
	})
	return reviews, nil
}
