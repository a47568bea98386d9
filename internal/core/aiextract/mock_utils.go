package aiextract

import (
	"context"
)

type MockClient struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateJSON(ctx, prompt)
}

func (m *MockClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
