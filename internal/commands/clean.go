package commands

import (
	"fmt"
	"html"
	"io"
	"os"

	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/rs/zerolog"
)

// CleanCommand writes a bookmark file without duplicate URLs and dead links
type CleanCommand struct {
	logger zerolog.Logger
}

// NewCleanCommand creates a new clean command
func NewCleanCommand(logger zerolog.Logger) *CleanCommand {
	return &CleanCommand{logger: logger.With().Str("component", "clean").Logger()}
}

// folderNode is a folder with its bookmarks and subfolders in first-seen order
type folderNode struct {
	name      string
	bookmarks []models.Bookmark
	children  []*folderNode
	index     map[string]*folderNode
}

func newFolderNode(name string) *folderNode {
	return &folderNode{name: name, index: make(map[string]*folderNode)}
}

func (n *folderNode) child(name string) *folderNode {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := newFolderNode(name)
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

// Execute exports the cleaned bookmarks to an HTML file in Netscape format.
// The first bookmark for each URL is kept; bookmarks whose URL is dead are dropped.
func (c *CleanCommand) Execute(a *models.Analysis, filePath string) error {
	kept := Clean(a)

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	root := newFolderNode("")
	for _, b := range kept {
		node := root
		for _, name := range b.Folder {
			node = node.child(name)
		}
		node.bookmarks = append(node.bookmarks, b)
	}

	fmt.Fprintf(file, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	fmt.Fprintf(file, "<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(file, "<TITLE>Bookmarks</TITLE>\n")
	fmt.Fprintf(file, "<H1>Bookmarks</H1>\n")
	fmt.Fprintf(file, "<DL><p>\n")
	writeFolderContent(file, root, 1)
	fmt.Fprintf(file, "</DL><p>\n")

	if err := file.Close(); err != nil {
		return fmt.Errorf("cannot write file: %w", err)
	}

	removed := len(a.Bookmarks) - len(kept)
	c.logger.Info().Msgf("Exported %d bookmarks to '%s' (%d removed)", len(kept), filePath, removed)
	return nil
}

// Clean returns the bookmarks that survive deduplication and dead-link removal
func Clean(a *models.Analysis) []models.Bookmark {
	dead := make(map[string]bool, len(a.DeadLinks))
	for _, l := range a.DeadLinks {
		dead[l.URL] = true
	}

	seen := make(map[string]bool)
	kept := make([]models.Bookmark, 0, len(a.Bookmarks))
	for _, b := range a.Bookmarks {
		if dead[b.URL] || seen[b.URL] {
			continue
		}
		seen[b.URL] = true
		kept = append(kept, b)
	}
	return kept
}

// writeFolderContent writes the bookmarks of a folder followed by its subfolders
func writeFolderContent(w io.Writer, n *folderNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "    "
	}

	for _, b := range n.bookmarks {
		fmt.Fprintf(w, "%s<DT><A HREF=\"%s\">%s</A>\n", indent, html.EscapeString(b.URL), html.EscapeString(b.Title))
	}

	for _, child := range n.children {
		fmt.Fprintf(w, "%s<DT><H3>%s</H3>\n", indent, html.EscapeString(child.name))
		fmt.Fprintf(w, "%s<DL><p>\n", indent)
		writeFolderContent(w, child, depth+1)
		fmt.Fprintf(w, "%s</DL><p>\n", indent)
	}
}
