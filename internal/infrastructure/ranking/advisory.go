package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/ports"
)

const systemPrompt = `You are an assignment coordinator for a maintenance company.

Given a job and a list of contractors (with ratings, jobs completed, and feedback),
choose the best match.

Output ONLY: { "chosen_contractor": "<contractor_id>" }`

const defaultTimeout = 10 * time.Second

// AdvisoryRanker asks a chat-completion model to pick an assignee. It is
// advisory only: every transport, timeout or contract failure is logged and
// reported as an abstention, never as an error, so assignment always has the
// deterministic strategy to fall through to.
type AdvisoryRanker struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

var _ ports.Ranker = (*AdvisoryRanker)(nil)

func NewAdvisoryRanker(baseURL string, apiKey string, model string, timeout time.Duration) *AdvisoryRanker {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &AdvisoryRanker{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}
}

type rankRequest struct {
	Job         rankJob           `json:"job"`
	Contractors []ports.Scorecard `json:"contractors"`
}

type rankJob struct {
	JobID       string  `json:"job_id"`
	JobType     string  `json:"job_type"`
	Price       float64 `json:"price"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
}

type rankResponse struct {
	ChosenContractor string `json:"chosen_contractor"`
}

func (r *AdvisoryRanker) Rank(ctx context.Context, job ports.JobRecord, candidates []ports.Scorecard) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "ranking.advisory"),
		slog.String("job_id", job.JobID),
	)

	payload, err := json.Marshal(rankRequest{
		Job: rankJob{
			JobID:       job.JobID,
			JobType:     job.JobType,
			Price:       job.Price,
			Priority:    job.Priority,
			Description: job.Description,
		},
		Contractors: candidates,
	})
	if err != nil {
		logging.Warn(logCtx, "marshal ranking request failed", slog.String("error", err.Error()))
		return "", nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		logging.Warn(logCtx, "advisory ranking call failed", slog.String("error", err.Error()))
		return "", nil
	}
	if len(resp.Choices) == 0 {
		logging.Warn(logCtx, "advisory ranking returned no choices")
		return "", nil
	}

	chosen, err := ParseChoice(resp.Choices[0].Message.Content, candidates)
	if err != nil {
		logging.Warn(logCtx, "advisory ranking returned invalid suggestion", slog.String("error", err.Error()))
		return "", nil
	}
	return chosen, nil
}

// ParseChoice enforces the response contract: exactly
// {"chosen_contractor": "<id>"} with <id> one of the candidates. Anything
// else is a contract violation.
func ParseChoice(raw string, candidates []ports.Scorecard) (string, error) {
	decoder := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	decoder.DisallowUnknownFields()

	var parsed rankResponse
	if err := decoder.Decode(&parsed); err != nil {
		return "", err
	}
	// Decode stops at the end of the first value, so check nothing follows.
	if err := decoder.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return "", errors.New("trailing content after response object")
	}

	chosen := strings.TrimSpace(parsed.ChosenContractor)
	if chosen == "" {
		return "", errors.New("missing chosen_contractor")
	}
	for _, candidate := range candidates {
		if candidate.ContractorID == chosen {
			return chosen, nil
		}
	}
	return "", errors.New("chosen_contractor is not a candidate")
}
