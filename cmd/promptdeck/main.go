// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/promptdeck"
	"github.com/poiesic/promptdeck/core"
	"github.com/poiesic/promptdeck/storage"
	"github.com/poiesic/promptdeck/transfer"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "promptdeck",
		Usage: "Prompt library with folders, variables, and import/export",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory",
				EnvVars: []string{"PROMPTDECK_DB"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a prompt",
				ArgsUsage: "<title> <content>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder id or name"},
					&cli.BoolFlag{Name: "favorite", Usage: "Mark as favorite"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Attach a tag (repeatable)"},
				},
				Action: addCommand,
			},
			{
				Name:  "list",
				Usage: "List prompts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Limit to a folder id or name"},
					&cli.BoolFlag{Name: "favorites", Usage: "Only favorites"},
					&cli.StringFlag{Name: "sort", Usage: "Sort mode (recent, alphabetical, usage, favorites, manual)", Value: "manual"},
				},
				Action: listCommand,
			},
			{
				Name:      "show",
				Usage:     "Show one prompt in full",
				ArgsUsage: "<id>",
				Action:    showCommand,
			},
			{
				Name:      "edit",
				Usage:     "Edit a prompt's fields",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "content"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Replace the tag list (repeatable)"},
				},
				Action: editCommand,
			},
			{
				Name:      "rm",
				Usage:     "Delete a prompt",
				ArgsUsage: "<id>",
				Action:    rmCommand,
			},
			{
				Name:      "mv",
				Usage:     "Move a prompt to another folder",
				ArgsUsage: "<id> <folder>",
				Action:    mvCommand,
			},
			{
				Name:      "fav",
				Usage:     "Toggle a prompt's favorite flag",
				ArgsUsage: "<id>",
				Action:    favCommand,
			},
			{
				Name:      "copy",
				Usage:     "Render a prompt with variable values and print it",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "var", Usage: "Variable value as name=value (repeatable)"},
				},
				Action: copyCommand,
			},
			{
				Name:      "search",
				Usage:     "Search prompts by title and content",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Limit to a folder id or name"},
				},
				Action: searchCommand,
			},
			{
				Name:  "folder",
				Usage: "Manage folders",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Create a folder",
						ArgsUsage: "<name>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "icon", Value: core.DefaultFolderIcon},
						},
						Action: folderAddCommand,
					},
					{
						Name:   "ls",
						Usage:  "List folders",
						Action: folderLsCommand,
					},
					{
						Name:      "rename",
						Usage:     "Rename a folder",
						ArgsUsage: "<folder> <new-name>",
						Action:    folderRenameCommand,
					},
					{
						Name:      "rm",
						Usage:     "Delete a folder, moving its prompts to Home",
						ArgsUsage: "<folder>",
						Action:    folderRmCommand,
					},
					{
						Name:      "reorder",
						Usage:     "Reorder folders by listing every non-Home folder",
						ArgsUsage: "<folder> [<folder>...]",
						Action:    folderReorderCommand,
					},
				},
			},
			{
				Name:      "reorder",
				Usage:     "Reorder the prompts of a folder by listing all their ids",
				ArgsUsage: "<id> [<id>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder id or name", Value: core.HomeFolderID},
				},
				Action: reorderCommand,
			},
			{
				Name:  "export",
				Usage: "Export all prompts and folders as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
				},
				Action: exportCommand,
			},
			{
				Name:      "import",
				Usage:     "Import prompts and folders from a JSON file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Usage: "Import mode (merge, replace)", Value: "merge"},
				},
				Action: importCommand,
			},
			{
				Name:   "check",
				Usage:  "Run the data integrity diagnostic",
				Action: checkCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show collection statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func databasePath(c *cli.Context) (string, error) {
	if path := c.String("db"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve database path: %w", err)
	}
	return filepath.Join(home, ".promptdeck"), nil
}

func openManager(c *cli.Context) (*promptdeck.Manager, error) {
	path, err := databasePath(c)
	if err != nil {
		return nil, err
	}
	return promptdeck.Open(path)
}

// resolveFolder accepts a folder id or name. Names match
// case-insensitively; "home" and "Home" always resolve.
func resolveFolder(c *cli.Context, m *promptdeck.Manager, ref string) (*core.Folder, error) {
	folders, err := m.Folders().GetAll(c.Context)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if f.Id == ref {
			return f, nil
		}
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: folder %q", storage.ErrNotFound, ref)
}

func addCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: add <title> <content>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folderID := core.HomeFolderID
	if ref := c.String("folder"); ref != "" {
		folder, err := resolveFolder(c, m, ref)
		if err != nil {
			return err
		}
		folderID = folder.Id
	}

	saved, err := m.Prompts().Save(c.Context, &core.Prompt{
		Title:      c.Args().Get(0),
		Content:    c.Args().Get(1),
		FolderId:   folderID,
		IsFavorite: c.Bool("favorite"),
		Tags:       c.StringSlice("tag"),
	})
	if err != nil {
		return err
	}

	fmt.Println(saved.Id)
	return nil
}

func listCommand(c *cli.Context) error {
	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	var prompts []*core.Prompt
	if ref := c.String("folder"); ref != "" {
		folder, err := resolveFolder(c, m, ref)
		if err != nil {
			return err
		}
		prompts, err = m.Prompts().GetByFolder(c.Context, folder.Id)
		if err != nil {
			return err
		}
	} else {
		prompts, err = m.Prompts().GetAll(c.Context)
		if err != nil {
			return err
		}
	}

	mode := core.SortMode(c.String("sort"))
	if c.Bool("favorites") {
		mode = core.SortFavorites
	}
	for _, p := range core.SortPrompts(prompts, mode) {
		printPromptLine(p)
	}
	return nil
}

func printPromptLine(p *core.Prompt) {
	marker := " "
	if p.IsFavorite {
		marker = "*"
	}
	extra := ""
	if len(p.Variables) > 0 {
		extra = "  [" + strings.Join(p.Variables, ", ") + "]"
	}
	fmt.Printf("%s %s  %s%s\n", marker, p.Id, p.Title, extra)
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: show <id>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	p, err := m.Prompts().Get(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("Id:        %s\n", p.Id)
	fmt.Printf("Title:     %s\n", p.Title)
	fmt.Printf("Folder:    %s\n", p.FolderId)
	fmt.Printf("Favorite:  %t\n", p.IsFavorite)
	fmt.Printf("Usage:     %d\n", p.UsageCount)
	if len(p.Variables) > 0 {
		fmt.Printf("Variables: %s\n", strings.Join(p.Variables, ", "))
	}
	if len(p.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Printf("\n%s\n", p.Content)
	return nil
}

func editCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: edit <id>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	update := storage.PromptUpdate{}
	if c.IsSet("title") {
		title := c.String("title")
		update.Title = &title
	}
	if c.IsSet("content") {
		content := c.String("content")
		update.Content = &content
	}
	if c.IsSet("tag") {
		update.Tags = c.StringSlice("tag")
	}

	updated, err := m.Prompts().Update(c.Context, c.Args().First(), update)
	if err != nil {
		return err
	}
	printPromptLine(updated)
	return nil
}

func rmCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: rm <id>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Prompts().Delete(c.Context, c.Args().First())
}

func mvCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: mv <id> <folder>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folder, err := resolveFolder(c, m, c.Args().Get(1))
	if err != nil {
		return err
	}
	_, err = m.Prompts().Move(c.Context, c.Args().First(), folder.Id)
	return err
}

func favCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: fav <id>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	toggled, err := m.Prompts().ToggleFavorite(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	printPromptLine(toggled)
	return nil
}

func copyCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: copy <id>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	values := map[string]string{}
	for _, pair := range c.StringSlice("var") {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("invalid --var %q: expected name=value", pair)
		}
		values[name] = value
	}

	// Fill unset variables from stored defaults.
	prompt, err := m.Prompts().Get(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	defaults, err := m.Defaults().Get(c.Context)
	if err != nil {
		return err
	}
	for _, name := range prompt.Variables {
		if _, ok := values[name]; ok {
			continue
		}
		if stored, ok := defaults[name]; ok {
			values[name] = stored
		}
	}

	rendered, err := m.Render(c.Context, prompt.Id, values)
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: search <query>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if ref := c.String("folder"); ref != "" {
		folder, err := resolveFolder(c, m, ref)
		if err != nil {
			return err
		}
		results, err := m.Prompts().Search(c.Context, c.Args().First(), folder.Id)
		if err != nil {
			return err
		}
		for _, p := range results {
			printPromptLine(p)
		}
		return nil
	}

	results, err := m.Prompts().SearchWithFolderPath(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	for _, r := range results {
		marker := " "
		if r.IsFavorite {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  (%s)\n", marker, r.Id, r.Title, r.FolderPath)
	}
	return nil
}

func folderAddCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: folder add <name>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	saved, err := m.Folders().Save(c.Context, &core.Folder{
		Name: c.Args().First(),
		Icon: c.String("icon"),
	})
	if err != nil {
		return err
	}
	fmt.Println(saved.Id)
	return nil
}

func folderLsCommand(c *cli.Context) error {
	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folders, err := m.Folders().GetAll(c.Context)
	if err != nil {
		return err
	}
	for _, f := range folders {
		fmt.Printf("%s %s  %s\n", f.Icon, f.Id, f.Name)
	}
	return nil
}

func folderRenameCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: folder rename <folder> <new-name>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folder, err := resolveFolder(c, m, c.Args().First())
	if err != nil {
		return err
	}
	name := c.Args().Get(1)
	_, err = m.Folders().Update(c.Context, folder.Id, storage.FolderUpdate{Name: &name})
	return err
}

func folderRmCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: folder rm <folder>")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folder, err := resolveFolder(c, m, c.Args().First())
	if err != nil {
		return err
	}
	return m.Folders().Delete(c.Context, folder.Id)
}

func folderReorderCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: folder reorder <folder> [<folder>...]")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	ids := make([]string, 0, c.NArg())
	for _, ref := range c.Args().Slice() {
		folder, err := resolveFolder(c, m, ref)
		if err != nil {
			return err
		}
		ids = append(ids, folder.Id)
	}
	return m.Folders().Reorder(c.Context, ids)
}

func reorderCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: reorder <id> [<id>...]")
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	folder, err := resolveFolder(c, m, c.String("folder"))
	if err != nil {
		return err
	}
	return m.Prompts().Reorder(c.Context, folder.Id, c.Args().Slice())
}

func exportCommand(c *cli.Context) error {
	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	data, err := m.Export(c.Context)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return os.WriteFile(out, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: import <file>")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	report, err := m.Import(c.Context, data, transfer.Mode(c.String("mode")))
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d prompts (%d skipped), %d folders (%d skipped)\n",
		report.PromptsImported, report.PromptsSkipped,
		report.FoldersImported, report.FoldersSkipped)
	for _, title := range report.SkippedPrompts {
		fmt.Printf("  skipped prompt: %s\n", title)
	}
	for _, name := range report.SkippedFolders {
		fmt.Printf("  skipped folder: %s\n", name)
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	report, err := m.CheckIntegrity(c.Context)
	if err != nil {
		return err
	}

	if report.OK() {
		fmt.Printf("OK: %d prompts, %d folders\n", report.Prompts, report.Folders)
		return nil
	}
	for _, issue := range report.Issues {
		fmt.Printf("PROBLEM: %s\n", issue)
	}
	return fmt.Errorf("%d integrity problems found", len(report.Issues))
}

func statsCommand(c *cli.Context) error {
	m, err := openManager(c)
	if err != nil {
		return err
	}
	defer m.Close()

	stats, err := m.Stats(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Prompts:     %d\n", stats.Prompts)
	fmt.Printf("Folders:     %d\n", stats.Folders)
	fmt.Printf("Favorites:   %d\n", stats.Favorites)
	fmt.Printf("Total usage: %d\n", stats.TotalUsage)
	fmt.Printf("Data size:   %d bytes\n", stats.TotalBytes)
	return nil
}
