package commands

import (
	"fmt"
	"html"
	"os"
	"sort"

	"github.com/Ryutta/qiita-list/internal/models"
)

// ExportCommand writes a collection out as a Netscape bookmarks HTML file,
// the format every browser imports. Stocked and liked items land in their
// own folders; an item carrying both flags appears in both.
type ExportCommand struct {
	collection *models.Collection
}

// NewExportCommand creates a new export command
func NewExportCommand(collection *models.Collection) *ExportCommand {
	return &ExportCommand{collection: collection}
}

// Execute exports the collection to an HTML file
func (c *ExportCommand) Execute(filePath string) error {
	items := c.collection.Items()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	fmt.Fprintf(file, "<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(file, "<TITLE>Bookmarks</TITLE>\n")
	fmt.Fprintf(file, "<H1>Bookmarks</H1>\n")
	fmt.Fprintf(file, "<DL><p>\n")

	var stocked, liked []models.Item
	for _, it := range items {
		if it.Stocked {
			stocked = append(stocked, it)
		}
		if it.Liked {
			liked = append(liked, it)
		}
	}

	c.writeFolder(file, "Stocked", stocked)
	c.writeFolder(file, "Liked", liked)

	fmt.Fprintf(file, "</DL><p>\n")

	fmt.Printf("Exported %d items to %s\n", len(items), filePath)
	return nil
}

// writeFolder writes one folder with its items sorted by title
func (c *ExportCommand) writeFolder(file *os.File, name string, items []models.Item) {
	if len(items) == 0 {
		return
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})

	fmt.Fprintf(file, "    <DT><H3>%s</H3>\n", html.EscapeString(name))
	fmt.Fprintf(file, "    <DL><p>\n")
	for _, it := range items {
		fmt.Fprintf(file, "    <DT><A HREF=\"%s\">%s</A>\n",
			html.EscapeString(it.URL), html.EscapeString(it.Title))
	}
	fmt.Fprintf(file, "    </DL><p>\n")
}
