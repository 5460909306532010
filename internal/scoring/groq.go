package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
)

// GroqAnalyzer scores resumes with a Groq chat-completion model. It looks up
// the role's requirement text and asks the model for a strict JSON verdict.
type GroqAnalyzer struct {
	apiKey string
	model  string
	base   string
	http   *http.Client
	roles  store.RoleStore
	log    *zap.Logger
}

func NewGroqAnalyzer(apiKey, model string, roles store.RoleStore, log *zap.Logger) *GroqAnalyzer {
	return &GroqAnalyzer{
		apiKey: apiKey,
		model:  model,
		base:   "https://api.groq.com/openai/v1",
		http:   &http.Client{},
		roles:  roles,
		log:    log,
	}
}

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []map[string]string `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float32             `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type verdict struct {
	Selected bool   `json:"selected"`
	Feedback string `json:"feedback"`
}

// Analyze never returns an error: any internal failure yields a rejection
// verdict carrying the failure text, per the collaborator contract.
func (a *GroqAnalyzer) Analyze(ctx context.Context, resumeText, roleID string) (bool, string) {
	requirement, err := a.roles.GetRequirement(ctx, roleID)
	if err != nil {
		return false, fmt.Sprintf("Error analyzing resume: unknown role %s", roleID)
	}

	content, err := a.chat(ctx, a.buildPrompt(resumeText, roleID, requirement))
	if err != nil {
		a.log.Error("scoring: groq call failed", zap.String("role", roleID), zap.Error(err))
		return false, fmt.Sprintf("Error analyzing resume: %v", err)
	}

	v, err := parseVerdict(content)
	if err != nil {
		a.log.Error("scoring: unparsable verdict", zap.String("role", roleID), zap.Error(err))
		return false, fmt.Sprintf("Error analyzing resume: %v", err)
	}
	return v.Selected, v.Feedback
}

func (a *GroqAnalyzer) buildPrompt(resumeText, roleID, requirement string) string {
	var sb strings.Builder
	sb.WriteString("You are a technical recruiter screening a resume against a role profile.\n\n")
	sb.WriteString("## ROLE\n")
	sb.WriteString(roleID + "\n\n")
	sb.WriteString("## REQUIRED SKILLS\n")
	sb.WriteString(requirement + "\n\n")
	sb.WriteString("## RESUME\n")
	sb.WriteString(resumeText + "\n\n")
	sb.WriteString("Select the candidate only if the resume covers at least 70% of the required skills.\n")
	sb.WriteString("Respond with ONLY a JSON object:\n")
	sb.WriteString(`{"selected": <true|false>, "feedback": "<one paragraph explaining the decision>"}` + "\n")
	return sb.String()
}

func (a *GroqAnalyzer) chat(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    a.model,
		Messages: []map[string]string{{"role": "user", "content": prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq api error: %s", string(respBody))
	}

	var ch chatResponse
	if err := json.Unmarshal(respBody, &ch); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}
	if ch.Error != nil {
		return "", fmt.Errorf("api error: %s", ch.Error.Message)
	}
	if len(ch.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return ch.Choices[0].Message.Content, nil
}

// parseVerdict extracts the JSON object from the model response, tolerating
// surrounding prose.
func parseVerdict(content string) (verdict, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return verdict{}, fmt.Errorf("no JSON found in response")
	}

	var v verdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return verdict{}, fmt.Errorf("unmarshal verdict: %w", err)
	}
	return v, nil
}
