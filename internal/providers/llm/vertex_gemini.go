package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Name() string { return "vertex:" + v.modelName }

func (v *VertexGemini) Close() error { return v.client.Close() }

// Generate streams the answer and joins the chunks. The model handle is
// built per call because system instructions and sampling settings live on
// it.
func (v *VertexGemini) Generate(ctx context.Context, req Request) (string, error) {
	m := v.client.GenerativeModel(v.modelName)
	if sys := req.System(); sys != "" {
		m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(sys)}}
	}
	if req.Temperature > 0 {
		m.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	cs := m.StartChat()
	conv := req.Conversation()
	if len(conv) == 0 {
		return "", ErrEmptyResponse
	}
	for _, msg := range conv[:len(conv)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &vertexgenai.Content{Role: role, Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)}})
	}

	var sb strings.Builder
	it := cs.SendMessageStream(ctx, vertexgenai.Text(conv[len(conv)-1].Content))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
