package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const promptVersion = "v1"

const digestSystemPrompt = `You are a DAO governance analyst. You receive a list of governance proposals with their current status and lifecycle stage. Write a short digest for forum readers who want to catch up.

Rules:
1. Stay neutral, never advocate for or against a proposal
2. Lead with proposals that changed state (passed, defeated, executed, pending execution)
3. Group related stages of the same initiative (temp check, ARFC, AIP) into one mention
4. Keep all facts: proposal names, stages, statuses
5. No speculation about future votes

Output as JSON only, no other text:
{
  "paragraph": "2-3 sentence overview of governance activity",
  "bullets": ["one bullet per notable proposal, at most 6 bullets"]
}`

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Digest(proposals []DigestInput) (*DigestResult, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(digestSystemPrompt),
			openai.UserMessage(formatProposalsForDigest(proposals)),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var parsed struct {
		Paragraph string   `json:"paragraph"`
		Bullets   []string `json:"bullets"`
	}

	err = json.Unmarshal([]byte(content), &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return &DigestResult{
		Paragraph:     parsed.Paragraph,
		Bullets:       parsed.Bullets,
		ModelUsed:     c.modelName,
		PromptVersion: promptVersion,
	}, nil
}

func formatProposalsForDigest(proposals []DigestInput) string {
	var sb strings.Builder
	for i, p := range proposals {
		sb.WriteString(fmt.Sprintf("%d. [%s/%s] %s - %s\n", i+1, p.Source, p.Stage, p.Title, p.Status))
	}
	return sb.String()
}
