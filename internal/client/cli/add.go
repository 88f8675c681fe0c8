package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/waterintake"
)

// Add runs the interactive drink form: measurements, an optional title
// and image, then saves the record and tries to push it right away.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first")
		return nil
	}

	rec := models.NewWaterResult(a.user.ID)

	title, err := getSimpleText(a.reader, "Title (blank for a generated one)", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		title = a.titles.Title()
		printlnFn("Using title: " + title)
	}
	rec.Title = title

	rec.Description, err = getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.fillMeasurements(rec); err != nil {
		printlnFn(err.Error())
		return err
	}

	imagePath, err := getSimpleText(a.reader, "Image file (optional)", os.Stdout)
	if err != nil {
		return err
	}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			printlnFn("Cannot read image:", err.Error())
			return err
		}
		name := uuid.NewString() + filepath.Ext(imagePath)
		staged, err := a.blobs.Save(name, data)
		if err != nil {
			return err
		}
		rec.LocalImagePath = staged
	}

	synced, err := a.results.Create(ctx, rec)
	if err != nil {
		a.log.Error(ctx, "failed to save record", "error", err)
		printlnFn("Failed to save:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Saved. You drank %.0f ml of a recommended %.0f ml (%.1f%%).",
		waterintake.ToMilliliters(rec.DrinkAmount, rec.WaterUnit), rec.ResultValue, rec.Percentage))
	if synced {
		printlnFn("Synced to the server.")
	} else {
		printlnFn("Saved locally; will sync when a connection is available.")
	}
	return nil
}

// fillMeasurements prompts for the measurement fields and derives the
// recommended intake and the consumed percentage from them.
func (a *App) fillMeasurements(rec *models.WaterResult) error {
	weight, err := GetFloat(a.reader, "Body weight", 70, os.Stdout)
	if err != nil {
		return err
	}
	weightUnit, err := GetChoice(a.reader, "Weight unit", []string{"kilogram", "pound"}, "kilogram", os.Stdout)
	if err != nil {
		return err
	}

	temp, err := GetFloat(a.reader, "Room temperature", 25, os.Stdout)
	if err != nil {
		return err
	}
	tempUnit, err := GetChoice(a.reader, "Temperature unit", []string{"celsius", "fahrenheit", "kelvin"}, "celsius", os.Stdout)
	if err != nil {
		return err
	}

	activity, err := GetChoice(a.reader, "Activity level", []string{"low", "medium", "high"}, "low", os.Stdout)
	if err != nil {
		return err
	}
	gender, err := GetChoice(a.reader, "Gender", []string{"male", "female"}, "male", os.Stdout)
	if err != nil {
		return err
	}

	amount, err := GetFloat(a.reader, "Amount drunk", 0, os.Stdout)
	if err != nil {
		return err
	}
	waterUnit, err := GetChoice(a.reader, "Water unit", []string{"ml", "oz", "glasses"}, "ml", os.Stdout)
	if err != nil {
		return err
	}

	rec.Weight = weight
	rec.WeightUnit = models.WeightUnit(strings.ToUpper(weightUnit))
	rec.RoomTemp = temp
	rec.TempUnit = models.TempUnit(strings.ToUpper(tempUnit))
	rec.ActivityLevel = models.ActivityLevel(strings.ToUpper(activity))
	rec.Gender = models.Gender(strings.ToUpper(gender))
	rec.DrinkAmount = amount
	rec.WaterUnit = models.WaterUnit(strings.ToUpper(waterUnit))

	rec.ResultValue = waterintake.Milliliters(rec.Weight, rec.WeightUnit, rec.RoomTemp, rec.TempUnit, rec.Gender, rec.ActivityLevel)
	rec.Percentage = waterintake.Percentage(waterintake.ToMilliliters(rec.DrinkAmount, rec.WaterUnit), rec.ResultValue)
	return nil
}
