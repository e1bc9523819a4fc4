package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 300 * time.Second

// Client talks to the remote analysis backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) CodeReview(ctx context.Context, files []Upload, model string) (*CodeReviewResult, error) {
	body, contentType, err := multipartBody(files, func(w *multipart.Writer) error {
		if model == "" {
			return nil
		}
		return w.WriteField("model", model)
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Reviews *[]Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/processes/code-review/run", body, contentType, &res); err != nil {
		return nil, err
	}
	if res.Reviews == nil || len(*res.Reviews) == 0 {
		return nil, malformed("reviews missing or empty")
	}
	return &CodeReviewResult{Reviews: *res.Reviews}, nil
}

func (c *Client) RequirementAnalysis(ctx context.Context, files []Upload, model, customPrompt string) (*RequirementAnalysisResult, error) {
	body, contentType, err := multipartBody(files, func(w *multipart.Writer) error {
		if err := writeTypes(w, files); err != nil {
			return err
		}
		if model != "" {
			if err := w.WriteField("model", model); err != nil {
				return err
			}
		}
		if customPrompt != "" {
			return w.WriteField("custom_prompt", customPrompt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.doRaw(ctx, http.MethodPost, "/api/processes/requirement-analysis/run", body, contentType)
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(raw)
}

// decodeAnalysis accepts {analysis: [...]}, {result: ...}, a JSON string or plain text.
func decodeAnalysis(raw []byte) (*RequirementAnalysisResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, malformed("empty requirement analysis response")
	}

	var obj struct {
		Analysis *[]AnalysisEntry `json:"analysis"`
		Result   json.RawMessage  `json:"result"`
		Error    string           `json:"error"`
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, malformed(err.Error())
		}
		if obj.Error != "" {
			return nil, &RemoteError{Message: obj.Error}
		}
		if obj.Analysis != nil {
			return &RequirementAnalysisResult{Analysis: *obj.Analysis}, nil
		}
		if len(obj.Result) > 0 {
			return &RequirementAnalysisResult{Raw: flattenStrings(obj.Result)}, nil
		}
		return nil, malformed("analysis missing")
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return &RequirementAnalysisResult{Raw: s}, nil
	}
	return &RequirementAnalysisResult{Raw: string(trimmed)}, nil
}

func (c *Client) TestPlanning(ctx context.Context, files []Upload) (*TestPlanningResult, error) {
	body, contentType, err := multipartBody(files, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Result *string `json:"result"`
		Error  string  `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/processes/test-planning/run", body, contentType, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &RemoteError{Message: res.Error}
	}
	if res.Result == nil {
		return nil, malformed("result missing")
	}
	return &TestPlanningResult{Result: *res.Result}, nil
}

func (c *Client) EnvironmentSetup(ctx context.Context, files []Upload) (*EnvironmentSetupResult, error) {
	body, contentType, err := multipartBody(files, func(w *multipart.Writer) error {
		return writeTypes(w, files)
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Setups *[]json.RawMessage `json:"setups"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/processes/environment-setup/run", body, contentType, &res); err != nil {
		return nil, err
	}
	if res.Setups == nil {
		return nil, malformed("setups missing")
	}
	out := &EnvironmentSetupResult{Setups: make([]string, 0, len(*res.Setups))}
	for _, s := range *res.Setups {
		out.Setups = append(out.Setups, flattenStrings(s))
	}
	return out, nil
}

func (c *Client) TestScenarioGeneration(ctx context.Context, req ScenarioRequest) (*ScenarioResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var res struct {
		Scenarios *[]Scenario `json:"scenarios"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/processes/test-scenario-generation/run", bytes.NewReader(payload), "application/json", &res); err != nil {
		return nil, err
	}
	if res.Scenarios == nil {
		return nil, malformed("scenarios missing")
	}
	return &ScenarioResult{Scenarios: *res.Scenarios}, nil
}

// GetPrompt fetches the base prompt of a process.
func (c *Client) GetPrompt(ctx context.Context, processID string) (string, error) {
	var res struct {
		PromptText *string `json:"prompt_text"`
		Prompt     *string `json:"prompt"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/prompts/"+url.PathEscape(processID), nil, "", &res); err != nil {
		return "", err
	}
	switch {
	case res.PromptText != nil:
		return *res.PromptText, nil
	case res.Prompt != nil:
		return *res.Prompt, nil
	default:
		return "", malformed("prompt_text missing")
	}
}

func (c *Client) SavePrompt(ctx context.Context, processID, text string) error {
	payload, err := json.Marshal(map[string]string{"prompt": text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	_, err = c.doRaw(ctx, http.MethodPost, "/api/prompts/"+url.PathEscape(processID), bytes.NewReader(payload), "application/json")
	return err
}

func (c *Client) GeneratePrompt(ctx context.Context, req GeneratePromptRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var res struct {
		Status  string `json:"status"`
		Prompt  string `json:"prompt"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/test-scenario-generation/generate-prompt", bytes.NewReader(payload), "application/json", &res); err != nil {
		return "", err
	}
	if res.Status != "success" {
		msg := res.Message
		if msg == "" {
			msg = "Failed to generate prompt"
		}
		return "", &RemoteError{Message: msg}
	}
	return res.Prompt, nil
}

// TestTypeDetails returns empty details when the backend does not know the test type.
func (c *Client) TestTypeDetails(ctx context.Context, testType string) (*TestTypeDetails, error) {
	res := &TestTypeDetails{}
	path := "/api/processes/test-scenario-generation/test-type/" + url.PathEscape(testType)
	err := c.do(ctx, http.MethodGet, path, nil, "", res)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			res = &TestTypeDetails{}
		} else {
			return nil, err
		}
	}
	if res.ScoringElements == nil {
		res.ScoringElements = map[string]interface{}{}
	}
	if res.InstructionElements == nil {
		res.InstructionElements = map[string]interface{}{}
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	raw, err := c.doRaw(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(err.Error())
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// multipartBody writes every upload as a "files" part, then lets extra add form fields.
func multipartBody(files []Upload, extra func(*multipart.Writer) error) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", f.Name, err)
		}
	}
	if extra != nil {
		if err := extra(w); err != nil {
			return nil, "", fmt.Errorf("write form fields: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func writeTypes(w *multipart.Writer, files []Upload) error {
	for _, f := range files {
		if err := w.WriteField("types", f.Type); err != nil {
			return err
		}
	}
	return nil
}
