package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facet-org/facet/engine"
)

// ============================================================================
// GEMINI CLIENT — The only component that calls an external AI service
// ============================================================================
// Receives ChartData plus the chart's config, returns a text blob with two
// labeled sections (ANALYSIS: and INSIGHTS:). The model never sees raw rows,
// only the aggregated series the renderer would draw.
// ============================================================================

// ClientConfig holds AI provider settings.
type ClientConfig struct {
	APIKey   string
	Model    string // e.g. "gemini-2.5-flash-lite"
	Endpoint string // override for tests; empty = Gemini default
}

// GeminiClient implements Client against the Google Gemini API.
type GeminiClient struct {
	config ClientConfig
	client *http.Client
}

// NewGemini creates a Gemini-backed analysis client.
func NewGemini(cfg ClientConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &GeminiClient{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze sends the chart summary to Gemini and returns the raw blob.
func (g *GeminiClient) Analyze(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req.Chart, req.Data)

	response, err := g.call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return stripFences(response), nil
}

// BuildPrompt renders the chart's config and computed series into a bounded
// prompt asking for the two-section response format.
func BuildPrompt(chart *engine.Chart, data *engine.ChartData) string {
	var b strings.Builder

	b.WriteString("You are a data analyst. Describe the chart below.\n\n")
	fmt.Fprintf(&b, "Chart: %s (template: %s, aggregation: %s)\n",
		chart.Name, chart.Config.TemplateID, chart.Config.Aggregation)
	if chart.Config.XAxisField != "" {
		fmt.Fprintf(&b, "X axis: %s — Y axis: %s\n", chart.Config.XAxisField, chart.Config.YAxisField)
	}
	if chart.Config.CategoryField != "" {
		fmt.Fprintf(&b, "Category: %s — Value: %s\n", chart.Config.CategoryField, chart.Config.ValueField)
	}

	if data != nil {
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(truncateList(data.Labels, 30), ", "))
		for _, ds := range data.Datasets {
			if ds.Points != nil {
				fmt.Fprintf(&b, "Series %q: %d points\n", ds.Label, len(ds.Points))
				continue
			}
			vals := make([]string, 0, len(ds.Values))
			for _, v := range ds.Values {
				vals = append(vals, fmt.Sprintf("%g", v))
			}
			fmt.Fprintf(&b, "Series %q: [%s]\n", ds.Label, strings.Join(truncateList(vals, 30), ", "))
		}
	}

	b.WriteString(`
Respond with exactly two labeled sections and nothing else:

ANALYSIS:
<2-4 sentences describing what the data shows>

INSIGHTS:
<2-4 sentences of actionable takeaways>
`)
	return b.String()
}

// ============================================================================
// GEMINI API ENVELOPE
// ============================================================================

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *GeminiClient) call(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func truncateList(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	return append(append([]string{}, items[:max]...), "…")
}
