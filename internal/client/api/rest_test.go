package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *models.WaterResult {
	r := models.NewWaterResult("user-1")
	r.Title = "Morning Sip"
	r.RoomTemp = 22
	r.TempUnit = models.TempCelsius
	r.Weight = 70
	r.WeightUnit = models.WeightKilogram
	r.ActivityLevel = models.ActivityLow
	r.DrinkAmount = 500
	r.WaterUnit = models.WaterMl
	r.ResultValue = 2695
	r.Percentage = 18.5
	r.Gender = models.GenderMale
	return r
}

func dtoFor(id string) models.WaterResultDto {
	return models.WaterResultDto{
		ID:        id,
		UID:       "user-1",
		Title:     "Morning Sip",
		CreatedAt: "2025-05-01T10:30:00",
		UpdatedAt: "2025-05-01T10:30:00",
	}
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestRestClient_Create_SendsMultipartAndUIDHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/water-results/", r.URL.Path)
		assert.Equal(t, "user-1", r.Header.Get("uid"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Morning Sip", r.FormValue("title"))
		assert.Equal(t, "70", r.FormValue("weight"))
		assert.Equal(t, "KILOGRAM", r.FormValue("weightUnit"))
		assert.Equal(t, "LOW", r.FormValue("activityLevel"))
		assert.Equal(t, "MALE", r.FormValue("gender"))
		// no delete_image part on create
		assert.Empty(t, r.FormValue("delete_image"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegdata"), data)
		assert.Equal(t, "staged.jpg", header.Filename)

		respondJSON(t, w, models.BaseResponse[models.WaterResultDto]{
			Code: 201, Success: true, Data: dtoFor("srv1"),
		})
	}))
	defer srv.Close()

	c := NewRestClient(srv.URL, "user-1", 5*time.Second)
	rec := sampleRecord()
	rec.LocalImagePath = "/tmp/staging/staged.jpg"

	dto, err := c.Create(context.Background(), rec, []byte("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, "srv1", dto.ID)
}

func TestRestClient_Update_SendsDeleteImageFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/water-results/srv1", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "true", r.FormValue("delete_image"))

		respondJSON(t, w, models.BaseResponse[models.WaterResultDto]{
			Code: 200, Success: true, Data: dtoFor("srv1"),
		})
	}))
	defer srv.Close()

	c := NewRestClient(srv.URL, "user-1", 5*time.Second)
	rec := sampleRecord()
	rec.ID = "srv1"
	rec.DeleteImage = true

	dto, err := c.Update(context.Background(), rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "srv1", dto.ID)
}

func TestRestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "user-1", r.Header.Get("uid"))
		assert.Equal(t, "true", r.URL.Query().Get("show_all"))

		respondJSON(t, w, models.BaseResponse[[]models.WaterResultDto]{
			Code: 200, Success: true,
			Data: []models.WaterResultDto{dtoFor("srv1"), dtoFor("srv2")},
			Meta: &models.Meta{CurrentPage: 1, Total: 2},
		})
	}))
	defer srv.Close()

	c := NewRestClient(srv.URL, "user-1", 5*time.Second)
	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "srv2", got[1].ID)
}

func TestRestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/water-results/srv1", r.URL.Path)
		respondJSON(t, w, models.BaseResponse[models.WaterResultDto]{
			Code: 200, Success: true, Data: dtoFor("srv1"),
		})
	}))
	defer srv.Close()

	c := NewRestClient(srv.URL, "user-1", 5*time.Second)
	dto, err := c.Get(context.Background(), "srv1")
	require.NoError(t, err)
	assert.Equal(t, "srv1", dto.ID)
}

func TestRestClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/water-results/srv1", r.URL.Path)
		respondJSON(t, w, models.BaseResponse[map[string]any]{Code: 200, Success: true})
	}))
	defer srv.Close()

	c := NewRestClient(srv.URL, "user-1", 5*time.Second)
	assert.NoError(t, c.Delete(context.Background(), "srv1"))
}

func TestRestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		code      int
		wantErrIs error
		transient bool
	}{
		{401, common.ErrUnauthorized, false},
		{403, common.ErrUnauthorized, false},
		{404, common.ErrNotFound, false},
		{422, common.ErrValidation, false},
		{500, nil, true},
		{503, nil, true},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				respondJSON(t, w, models.BaseResponse[map[string]any]{
					Code: tc.code, Success: false, Message: "nope",
				})
			}))
			defer srv.Close()

			c := NewRestClient(srv.URL, "user-1", 5*time.Second)
			_, err := c.Get(context.Background(), "x")
			require.Error(t, err)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
			assert.Equal(t, tc.transient, IsTransient(err))
		})
	}
}

func TestRestClient_ConnectionRefusedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewRestClient(srv.URL, "user-1", time.Second)
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestIsTransient_Classification(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(common.ErrUnauthorized))
	assert.False(t, IsTransient(fmt.Errorf("wrap: %w", common.ErrValidation)))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(io.ErrUnexpectedEOF))
	assert.True(t, IsTransient(&StatusError{Code: 502, Message: "bad gateway"}))
	assert.False(t, IsTransient(errors.New("some app error")))
}
