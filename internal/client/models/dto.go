package models

import (
	"fmt"
	"strings"
	"time"
)

// BaseResponse is the envelope every remote endpoint returns.
type BaseResponse[T any] struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination info on list responses.
type Meta struct {
	CurrentPage int `json:"current_page"`
	From        int `json:"from"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	To          int `json:"to"`
	Total       int `json:"total"`
}

// WaterResultDto is the remote representation of a record. Timestamps are
// ISO-8601 strings; the server sometimes omits the trailing Z.
type WaterResultDto struct {
	ID            string        `json:"id"`
	UID           string        `json:"uid"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	RoomTemp      float64       `json:"roomTemp"`
	TempUnit      TempUnit      `json:"tempUnit"`
	Weight        float64       `json:"weight"`
	WeightUnit    WeightUnit    `json:"weightUnit"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	DrinkAmount   float64       `json:"drinkAmount"`
	WaterUnit     WaterUnit     `json:"waterUnit"`
	ResultValue   float64       `json:"resultValue"`
	Percentage    float64       `json:"percentage"`
	Gender        Gender        `json:"gender"`
	ImageURL      string        `json:"imageUrl"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

// ParseServerTime parses a server timestamp, appending the UTC suffix if
// the server dropped it.
func ParseServerTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if !strings.HasSuffix(s, "Z") {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse server time %q: %w", s, err)
	}
	return t, nil
}

// ToEntity converts a remote record into a local one in the converged
// state. The server is authoritative, so the result carries StateClean.
func (d *WaterResultDto) ToEntity() (*WaterResult, error) {
	createdAt, err := ParseServerTime(d.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := ParseServerTime(d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &WaterResult{
		ID:            d.ID,
		OwnerID:       d.UID,
		Title:         d.Title,
		Description:   d.Description,
		RoomTemp:      d.RoomTemp,
		TempUnit:      d.TempUnit,
		Weight:        d.Weight,
		WeightUnit:    d.WeightUnit,
		ActivityLevel: d.ActivityLevel,
		DrinkAmount:   d.DrinkAmount,
		WaterUnit:     d.WaterUnit,
		ResultValue:   d.ResultValue,
		Percentage:    d.Percentage,
		Gender:        d.Gender,
		ImageURL:      d.ImageURL,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		State:         StateClean,
	}, nil
}

// User is the signed-in-user snapshot cached in the local key-value store.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
}
