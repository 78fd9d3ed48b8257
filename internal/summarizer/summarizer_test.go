package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
)

type fakeClient struct {
	resp string
	err  error
	reqs []llm.Request
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func newTestSummarizer(client llm.Client) Summarizer {
	return New(client, retry.New(retry.Config{MaxAttempts: 1}, logger.Nop()), logger.Nop(), Prompts{User: "custom instruction"}, Options{Temperature: 0.3})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		resp    string
		err     error
		want    string
		wantErr bool
	}{
		{name: "ok", text: "A joke about airports.", resp: "  ## Overview\nAirports.  ", want: "## Overview\nAirports."},
		{name: "empty text", text: "   ", wantErr: true},
		{name: "empty response", text: "text", resp: "  ", wantErr: true},
		{name: "service error", text: "text", err: errors.New("401 unauthorized"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{resp: tt.resp, err: tt.err}
			s := newTestSummarizer(client)

			got, err := s.Summarize(context.Background(), tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Summarize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeRequest(t *testing.T) {
	client := &fakeClient{resp: "ok"}
	s := newTestSummarizer(client)

	if _, err := s.Summarize(context.Background(), "the transcript"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	req := client.reqs[0]
	if req.Task != llm.TaskSummary || req.System != DefaultPrompts.System {
		t.Errorf("request = %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0] != "custom instruction" || req.Messages[1] != "the transcript" {
		t.Errorf("Messages = %q", req.Messages)
	}
}

func TestMergeSummaries(t *testing.T) {
	client := &fakeClient{resp: "Whole show."}
	s := newTestSummarizer(client)

	got, err := s.MergeSummaries(context.Background(), "CHUNK 1 (0.0-5.0 minutes):\nA\n\nCHUNK 2 (5.0-10.0 minutes):\nB")
	if err != nil {
		t.Fatalf("MergeSummaries() error = %v", err)
	}
	if got != "Whole show." {
		t.Errorf("MergeSummaries() = %q", got)
	}
	req := client.reqs[0]
	if req.Task != llm.TaskMergeSummaries || req.System != DefaultPrompts.MergeSystem {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.Messages[1], "CHUNK 2") {
		t.Errorf("Messages = %q", req.Messages)
	}

	if _, err := s.MergeSummaries(context.Background(), ""); err == nil {
		t.Error("MergeSummaries(\"\") should fail")
	}
}

func TestSummarizeBudgetExceeded(t *testing.T) {
	s := newTestSummarizer(&fakeClient{err: errors.New("Request too large for gpt-4o: limit 30000, requested 52000")})

	_, err := s.Summarize(context.Background(), "long text")
	if !retry.IsBudgetExceeded(err) {
		t.Errorf("Summarize() error = %v, want budget-exceeded", err)
	}
}

func TestSummarizeWithMock(t *testing.T) {
	s := newTestSummarizer(llm.NewMock())

	got, err := s.Summarize(context.Background(), "some words")
	if err != nil || !strings.HasPrefix(got, "Mock summary") {
		t.Errorf("Summarize() = %q, %v", got, err)
	}
}
