package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dzaky3022/wincal/internal/client/models"
)

const resultsPath = "/water-results/"

// uidTransport injects the owner id header into every outgoing request.
type uidTransport struct {
	uid  string
	base http.RoundTripper
}

func (t *uidTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("uid", t.uid)
	return t.base.RoundTrip(clone)
}

// RestClient is the HTTP implementation of Client, bound to one owner id.
type RestClient struct {
	baseURL string
	uid     string
	hc      *http.Client
}

var _ Client = (*RestClient)(nil)

// NewRestClient binds an owner id to a client talking to baseURL.
func NewRestClient(baseURL, uid string, timeout time.Duration) *RestClient {
	return &RestClient{
		baseURL: baseURL,
		uid:     uid,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: &uidTransport{uid: uid, base: http.DefaultTransport},
		},
	}
}

// UID returns the owner identity this client is bound to.
func (c *RestClient) UID() string { return c.uid }

func (c *RestClient) Create(ctx context.Context, rec *models.WaterResult, image []byte) (*models.WaterResultDto, error) {
	body, contentType, err := encodeResultForm(rec, image, false)
	if err != nil {
		return nil, err
	}
	return c.sendResult(ctx, http.MethodPost, c.baseURL+resultsPath, body, contentType)
}

func (c *RestClient) Update(ctx context.Context, rec *models.WaterResult, image []byte) (*models.WaterResultDto, error) {
	body, contentType, err := encodeResultForm(rec, image, true)
	if err != nil {
		return nil, err
	}
	return c.sendResult(ctx, http.MethodPut, c.baseURL+resultsPath+url.PathEscape(rec.ID), body, contentType)
}

func (c *RestClient) sendResult(ctx context.Context, method, u string, body io.Reader, contentType string) (*models.WaterResultDto, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var br models.BaseResponse[*models.WaterResultDto]
	if err := json.Unmarshal(raw, &br); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !br.Success || br.Data == nil {
		return nil, wrapStatus(br.Code, br.Message)
	}
	return br.Data, nil
}

func (c *RestClient) List(ctx context.Context) ([]models.WaterResultDto, error) {
	u := c.baseURL + resultsPath + "?page=1&per_page=15&show_all=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var br models.BaseResponse[[]models.WaterResultDto]
	if err := json.Unmarshal(raw, &br); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !br.Success {
		return nil, wrapStatus(br.Code, br.Message)
	}
	return br.Data, nil
}

func (c *RestClient) Get(ctx context.Context, id string) (*models.WaterResultDto, error) {
	u := c.baseURL + resultsPath + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var br models.BaseResponse[*models.WaterResultDto]
	if err := json.Unmarshal(raw, &br); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !br.Success || br.Data == nil {
		return nil, wrapStatus(br.Code, br.Message)
	}
	return br.Data, nil
}

func (c *RestClient) Delete(ctx context.Context, id string) error {
	u := c.baseURL + resultsPath + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}

	var br models.BaseResponse[map[string]any]
	if err := json.Unmarshal(raw, &br); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !br.Success {
		return wrapStatus(br.Code, br.Message)
	}
	return nil
}

// do executes the request and returns the body on 2xx, or a classified
// error otherwise.
func (c *RestClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := resp.Status
		var br models.BaseResponse[json.RawMessage]
		if json.Unmarshal(raw, &br) == nil && br.Message != "" {
			message = br.Message
		}
		return nil, wrapStatus(resp.StatusCode, message)
	}
	return raw, nil
}

// encodeResultForm writes the record as the service's multipart shape:
// every measurement input as a text part, the image as a binary part, and
// on updates the delete_image flag.
func encodeResultForm(rec *models.WaterResult, image []byte, isUpdate bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		name  string
		value string
	}{
		{"title", rec.Title},
		{"description", rec.Description},
		{"roomTemp", formatFloat(rec.RoomTemp)},
		{"tempUnit", string(rec.TempUnit)},
		{"weight", formatFloat(rec.Weight)},
		{"weightUnit", string(rec.WeightUnit)},
		{"activityLevel", string(rec.ActivityLevel)},
		{"drinkAmount", formatFloat(rec.DrinkAmount)},
		{"waterUnit", string(rec.WaterUnit)},
		{"resultValue", formatFloat(rec.ResultValue)},
		{"percentage", formatFloat(rec.Percentage)},
		{"gender", string(rec.Gender)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if isUpdate {
		if err := w.WriteField("delete_image", strconv.FormatBool(rec.DeleteImage)); err != nil {
			return nil, "", fmt.Errorf("write field delete_image: %w", err)
		}
	}

	if len(image) > 0 {
		name := filepath.Base(rec.LocalImagePath)
		if name == "." || name == "/" || name == "" {
			name = "image.jpg"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
