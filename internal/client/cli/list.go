package cli

import (
	"context"
	"fmt"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/client/services"
)

// List prints the signed-in user's records, rendered according to the
// stored layout preference.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}

	items, err := a.results.List(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to list records", "error", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("No records yet. Type 'add' to log a drink.")
		return nil
	}

	layout, err := a.auth.Layout(ctx)
	if err != nil {
		layout = services.LayoutList
	}

	if layout == services.LayoutGrid {
		for i := 0; i < len(items); i += 2 {
			line := gridCell(items[i])
			if i+1 < len(items) {
				line += "   " + gridCell(items[i+1])
			}
			printlnFn(line)
		}
		return nil
	}

	for _, item := range items {
		printlnFn(fmt.Sprintf("%s  %-24s %6.1f%%  %s  %s",
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			item.Title, item.Percentage, stateMark(item), item.ID))
	}
	return nil
}

func gridCell(w *models.WaterResult) string {
	return fmt.Sprintf("[%-20.20s %5.1f%% %s]", w.Title, w.Percentage, stateMark(w))
}

// stateMark is a one-character sync indicator for listings.
func stateMark(w *models.WaterResult) string {
	if w.State == models.StateClean {
		return "✓"
	}
	return "…"
}

// Sync runs a manual pass; the outcome is printed by the sync result
// watcher.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}
	res := a.manager.ManualSync(ctx)
	if res.Err != nil {
		a.log.Warn(ctx, "manual sync failed", "error", res.Err)
	}
	return res.Err
}

// Layout shows or updates the listing layout preference.
func (a *App) Layout(ctx context.Context, mode string) error {
	if mode == "" {
		current, err := a.auth.Layout(ctx)
		if err != nil {
			return err
		}
		printlnFn("Current layout: " + current)
		return nil
	}
	if err := a.auth.SetLayout(ctx, mode); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Layout set to " + mode)
	return nil
}
