package page

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed pages/*.yaml
var EmbeddedPages embed.FS

// DefaultPageName is the name of the built-in page.
const DefaultPageName = "default"

// ErrUnknownPage is returned for a name with no built-in page.
var ErrUnknownPage = errors.New("no built-in page with that name")

// GetEmbeddedPage parses the built-in page called name, given without the
// .yaml extension.
func GetEmbeddedPage(name string) (*Page, error) {
	data, err := EmbeddedPages.ReadFile("pages/" + name + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	} else if err != nil {
		return nil, err
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in page %q: %w", name, err)
	}
	return p, nil
}

// ListEmbeddedPages returns the names of the built-in pages, sorted.
func ListEmbeddedPages() []string {
	matches, _ := fs.Glob(EmbeddedPages, "pages/*.yaml")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Resolve loads a page from ref. An empty ref is the default page, a bare
// built-in name such as "default" is that embedded page, and anything else
// is read as a YAML file path.
func Resolve(ref string) (*Page, error) {
	if ref == "" {
		ref = DefaultPageName
	}
	if slices.Contains(ListEmbeddedPages(), ref) {
		return GetEmbeddedPage(ref)
	}
	return Load(ref)
}
