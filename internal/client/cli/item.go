package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dzaky3022/wincal/internal/waterintake"
)

var _ execIface = (*App)(nil)

// Show prints a single record in full.
func (a *App) Show(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}

	w, err := a.results.Get(ctx, id)
	if err != nil {
		printlnFn("Not found:", id)
		return err
	}

	printlnFn("Title:        " + w.Title)
	if w.Description != "" {
		printlnFn("Description:  " + w.Description)
	}
	printlnFn(fmt.Sprintf("Drank:        %.1f %s", w.DrinkAmount, strings.ToLower(string(w.WaterUnit))))
	printlnFn(fmt.Sprintf("Recommended:  %.0f ml", w.ResultValue))
	printlnFn(fmt.Sprintf("Progress:     %.1f%%", w.Percentage))
	printlnFn(fmt.Sprintf("Body weight:  %.1f %s", w.Weight, strings.ToLower(string(w.WeightUnit))))
	printlnFn(fmt.Sprintf("Room temp:    %.1f %s", w.RoomTemp, strings.ToLower(string(w.TempUnit))))
	printlnFn("Activity:     " + strings.ToLower(string(w.ActivityLevel)))
	if w.ImageURL != "" {
		printlnFn("Image:        " + w.ImageURL)
	}
	printlnFn("Sync state:   " + w.State.String())
	printlnFn("Recorded at:  " + w.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// Edit updates the title, description, and drink amount of a record. A
// blank answer keeps the current value.
func (a *App) Edit(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}

	w, err := a.results.Get(ctx, id)
	if err != nil {
		printlnFn("Not found:", id)
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", w.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		w.Title = title
	}

	description, err := getSimpleText(a.reader, fmt.Sprintf("Description [%s]", w.Description), os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		w.Description = description
	}

	amount, err := GetFloat(a.reader, fmt.Sprintf("Amount drunk [%.1f]", w.DrinkAmount), w.DrinkAmount, os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	w.DrinkAmount = amount
	w.Percentage = waterintake.Percentage(waterintake.ToMilliliters(w.DrinkAmount, w.WaterUnit), w.ResultValue)

	dropImage, err := getSimpleText(a.reader, "Remove stored image? (y/N)", os.Stdout)
	if err != nil {
		return err
	}
	w.DeleteImage = strings.EqualFold(dropImage, "y") || strings.EqualFold(dropImage, "yes")

	synced, err := a.results.Update(ctx, w)
	if err != nil {
		a.log.Error(ctx, "failed to update record", "error", err)
		printlnFn("Failed to update:", err.Error())
		return err
	}
	if synced {
		printlnFn("Updated and synced.")
	} else {
		printlnFn("Updated locally; will sync when a connection is available.")
	}
	return nil
}

// Delete removes a record. Never-synced records vanish right away;
// synced ones are removed from the server on the next push.
func (a *App) Delete(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}
	if err := a.results.Delete(ctx, id); err != nil {
		printlnFn("Failed to delete:", err.Error())
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// Wipe erases every local record of the signed-in account and signs out.
func (a *App) Wipe(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}

	confirm, err := getSimpleText(a.reader, "This erases all local records of this account. Type 'yes' to continue", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") {
		printlnFn("Cancelled.")
		return nil
	}

	n, err := a.results.ClearUserData(ctx)
	if err != nil {
		printlnFn("Failed to wipe:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Removed %d record(s).", n))
	return a.Logout(ctx)
}
