package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oksasatya/notekeeper/internal/client"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "Work with your notes",
	}
	cmd.AddCommand(
		newNotesListCmd(app),
		newNotesNewCmd(app),
		newNotesEditCmd(app),
		newNotesColorCmd(app),
		newNotesPinCmd(app),
		newNotesDeleteCmd(app),
		newNotesExportCmd(app),
	)
	return cmd
}

// board loads the current list from the server.
func (a *App) board(ctx context.Context) (*client.Board, error) {
	b := client.NewBoard(a.Client)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (a *App) printNote(n client.Note) {
	pin := " "
	if n.Pinned {
		pin = "*"
	}
	a.printf("%s %s  %-8s %s\n", pin, n.ID, n.Color, n.Title)
}

func newNotesListCmd(app *App) *cobra.Command {
	var (
		search string
		remote bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, pinned first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var notes []client.Note
			if remote && strings.TrimSpace(search) != "" {
				found, err := app.Client.SearchNotes(cmd.Context(), search)
				if err != nil {
					return err
				}
				notes = found
			} else {
				b, err := app.board(cmd.Context())
				if err != nil {
					return err
				}
				notes = b.View(search)
			}
			if len(notes) == 0 {
				app.printf("no notes\n")
				return nil
			}
			for _, n := range notes {
				app.printNote(n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only titles containing this text (case-insensitive)")
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "run --search on the server, which may also match note content")
	return cmd
}

func newNotesNewCmd(app *App) *cobra.Command {
	var title, content, color string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b := client.NewBoard(app.Client)
			n, err := b.NewNote(ctx)
			if err != nil {
				return err
			}
			if title != "" || content != "" {
				n.Title, n.Content = strings.TrimSpace(title), content
				if n.Title == "" {
					n.Title = client.DefaultNoteTitle
				}
				if n, err = b.Save(ctx, n); err != nil {
					return err
				}
			}
			if color != "" {
				if n, err = b.SetColor(ctx, n.ID, color); err != nil {
					return err
				}
			}
			app.printNote(n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note body")
	cmd.Flags().StringVar(&color, "color", "", "hex color, e.g. #a770ef")
	return cmd
}

func newNotesEditCmd(app *App) *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title or body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := app.board(ctx)
			if err != nil {
				return err
			}
			if !b.Select(args[0]) {
				return &client.ActionError{Message: client.MsgSaveFailed, Err: &client.APIError{Status: 404, Code: "NoteNotFound"}}
			}
			n, _ := b.Selected()
			if cmd.Flags().Changed("title") {
				n.Title = title
			}
			if cmd.Flags().Changed("content") {
				n.Content = content
			}
			if n, err = b.Save(ctx, n); err != nil {
				return err
			}
			app.printNote(n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new body")
	return cmd
}

func newNotesColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color <id> <hex>",
		Short: "Change a note's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.board(cmd.Context())
			if err != nil {
				return err
			}
			n, err := b.SetColor(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			app.printNote(n)
			return nil
		},
	}
}

func newNotesPinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.board(cmd.Context())
			if err != nil {
				return err
			}
			n, err := b.TogglePin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.printNote(n)
			return nil
		},
	}
}

func newNotesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.NewBoard(app.Client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func newNotesExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all notes to cloud storage and print the URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := app.Client.ExportNotes(cmd.Context())
			if err != nil {
				return err
			}
			app.printf("%s\n", url)
			return nil
		},
	}
}
