package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long: `List projects, optionally filtered by name or status.

Examples:
  taskdeck list
  taskdeck list --search website
  taskdeck list --status active`,
	RunE: runList,
}

var (
	listSearch string
	listStatus string
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by name substring")
	listCmd.Flags().StringVar(&listStatus, "status", "all", "Filter by status (all, active, completed, pending)")
}

// parseStatusFilter validates a --status value
func parseStatusFilter(s string) (store.StatusFilter, error) {
	f := store.StatusFilter(s)
	switch f {
	case store.FilterAll, store.FilterActive, store.FilterCompleted, store.FilterPending:
		return f, nil
	}
	return "", fmt.Errorf("invalid status %q (valid values: all, active, completed, pending)", s)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := parseStatusFilter(listStatus)
	if err != nil {
		return err
	}

	storage, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer func() {
		_ = storage.Close()
	}()

	st := store.New(newService(), storage)
	if err := st.FetchProjects(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	st.SetSearch(listSearch)
	st.SetStatusFilter(filter)

	snap := st.Snapshot().Projects
	visible := tui.FilterProjects(snap.List, snap.Search, snap.StatusFilter)

	if len(visible) == 0 {
		fmt.Println("No projects match.")
		return nil
	}

	for _, p := range visible {
		done := 0
		for _, t := range p.Tasks {
			if t.Completed {
				done++
			}
		}
		fmt.Printf("%-28s %-10s %3d%%  %-12s tasks %d/%d\n",
			p.Name, p.Status, p.Progress, p.Owner, done, len(p.Tasks))
	}
	return nil
}
