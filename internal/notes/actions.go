package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/web-clipper/internal/app"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/db"
	"github.com/dtnitsch/web-clipper/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ListAction prints saved notes, newest first.
func ListAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	nb, database, err := app.OpenNotebook(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := nb.List(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No notes found")
		return nil
	}

	fmt.Printf("%-36s %-17s %-9s %-4s %s\n", "ID", "Created", "Type", "Lang", "Title")
	fmt.Println(strings.Repeat("-", 100))
	for _, n := range list {
		fmt.Printf("%-36s %-17s %-9s %-4s %s\n",
			n.ID,
			time.UnixMilli(n.CreatedAt).Format("2006-01-02 15:04"),
			n.ClipType,
			n.Language,
			displayTitle(n),
		)
	}
	fmt.Printf("\nTotal: %d notes\n", len(list))
	return nil
}

// ShowAction prints one note's Markdown.
func ShowAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return cli.Exit("usage: web-clipper notes show <id>", 1)
	}
	nb, database, err := app.OpenNotebook(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := nb.Get(c.Args().First())
	if err != nil {
		return notFound(err)
	}

	if c.Bool("raw") {
		fmt.Println(n.Content)
		return nil
	}
	data, err := storage.Render(n)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// DeleteAction removes notes by ID.
func DeleteAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return cli.Exit("usage: web-clipper notes delete <id>...", 1)
	}
	nb, database, err := app.OpenNotebook(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	for _, id := range c.Args().Slice() {
		if err := nb.Delete(id); err != nil {
			return notFound(err)
		}
		fmt.Printf("Deleted %s\n", id)
	}
	return nil
}

// ExportAction writes notes as Markdown files, all of them when no IDs are
// given.
func ExportAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	dir := cfg.Storage.ExportDir
	if c.IsSet("dir") {
		dir = c.String("dir")
	}

	nb, database, err := app.OpenNotebook(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var list []*models.Note
	if c.NArg() == 0 {
		list, err = nb.List(0)
		if err != nil {
			return err
		}
	} else {
		for _, id := range c.Args().Slice() {
			n, err := nb.Get(id)
			if err != nil {
				return notFound(err)
			}
			list = append(list, n)
		}
	}

	s := storage.New(dir)
	for _, n := range list {
		path, err := s.ExportNote(n)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	fmt.Printf("\nExported %d notes to %s\n", len(list), s.Dir())
	return nil
}

func displayTitle(n *models.Note) string {
	if n.Title != "" {
		return n.Title
	}
	return n.URL
}

func notFound(err error) error {
	if errors.Is(err, db.ErrNoteNotFound) {
		return cli.Exit(err.Error(), 1)
	}
	return err
}
