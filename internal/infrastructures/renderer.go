package infrastructures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// RendererClient talks to the external document rendering service that turns
// a voucher into a PDF. The pipeline treats it as best-effort: a render
// failure degrades the notification, it never blocks it.
type RendererClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewRendererClient() *RendererClient {
	return &RendererClient{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: Config.RENDERER_BASE_URL,
	}
}

type renderRequest struct {
	Kind    models.DocumentKind `json:"kind"`
	Voucher *models.Voucher     `json:"voucher"`
	Order   *models.Order       `json:"order"`
}

func (c *RendererClient) Render(ctx context.Context, kind models.DocumentKind, voucher *models.Voucher, order *models.Order) ([]byte, error) {
	payload, err := json.Marshal(renderRequest{Kind: kind, Voucher: voucher, Order: order})
	if err != nil {
		return nil, errors.NewRenderError(err, "Failed to encode render request")
	}

	url := fmt.Sprintf("%s/render/%s", c.BaseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewRenderError(err, "Failed to build render request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.NewRenderError(err, "Render service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewRenderError(fmt.Errorf("render service returned %d", resp.StatusCode), "Render service error")
	}

	document, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRenderError(err, "Failed to read rendered document")
	}

	return document, nil
}
