package processing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
)

const imageTimeout = 120 * time.Second

// GenerateImage renders a storyboard frame for the given prompt and returns
// it as an inline base64 data URL. Failures are classified into the sentinel
// errors in errors.go.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("image prompt must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModelDallE3,
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", classifyImageError(err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("%w: empty image response", ErrUpstream)
	}

	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func classifyImageError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// No HTTP response at all: DNS, dial or timeout failure.
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrCredential, err)
	case apiErr.StatusCode == http.StatusPaymentRequired || apiErr.Code == "insufficient_quota":
		return fmt.Errorf("%w: %v", ErrQuota, err)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: status %d: %v", ErrUpstream, apiErr.StatusCode, err)
	}
}
