// Package assistant wires the domain endpoints to their backend
// collaborators. The handlers here are thin orchestration: compute the
// cache key, consult the cache, call one or two collaborator methods,
// marshal the result. The heavy lifting lives behind the interfaces in
// collaborators.go.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mhoffman/alfred/internal/cache"
	"github.com/mhoffman/alfred/internal/server"
	"github.com/mhoffman/alfred/internal/wire"
)

// Per-endpoint freshness windows. Calendar and briefing data go stale
// faster than message summaries and drafts.
const (
	briefingTTL = 30 * time.Minute
	calendarTTL = 30 * time.Minute
	summaryTTL  = time.Hour
	draftsTTL   = time.Hour
)

const defaultRecentLimit = 20

// Service holds the collaborators and shared state the handlers need.
type Service struct {
	brain    Brain
	notion   Notion
	calendar Calendar
	agent    Agent
	configs  ConfigStore
	cache    *cache.Store
	passcode *server.Passcode
	logger   zerolog.Logger
}

// Options bundles the Service dependencies.
type Options struct {
	Brain    Brain
	Notion   Notion
	Calendar Calendar
	Agent    Agent
	Configs  ConfigStore
	Cache    *cache.Store
	Passcode *server.Passcode
	Logger   zerolog.Logger
}

func New(opts Options) *Service {
	return &Service{
		brain:    opts.Brain,
		notion:   opts.Notion,
		calendar: opts.Calendar,
		agent:    opts.Agent,
		configs:  opts.Configs,
		cache:    opts.Cache,
		passcode: opts.Passcode,
		logger:   opts.Logger,
	}
}

// cacheParams strips the credential from the query before it is used
// as a cache key, so authenticating via ?passcode= neither fragments
// the cache nor writes the secret into it.
func cacheParams(query map[string]string) map[string]string {
	params := make(map[string]string, len(query))
	for k, v := range query {
		if k == "passcode" {
			continue
		}
		params[k] = v
	}
	return params
}

// cached serves the endpoint from the response cache when possible. On
// a miss it invokes fn, stores the marshaled result under
// (endpoint, params) and returns it. A failing cache store is treated
// as a miss, never as a request failure.
func (s *Service) cached(ctx context.Context, endpoint string, params map[string]string, ttl time.Duration, fn func(context.Context) (any, error)) (*wire.Response, error) {
	body, err := s.cache.Get(endpoint, params)
	if err == nil {
		return &wire.Response{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       []byte(body),
		}, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("cache read failed")
	}

	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", endpoint, err)
	}
	if err := s.cache.Put(endpoint, params, string(encoded), ttl); err != nil {
		s.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("cache write failed")
	}

	return &wire.Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       encoded,
	}, nil
}

// decodeBody parses a required JSON request body into v. The returned
// response, when non-nil, is a ready-made 400.
func decodeBody(req *wire.Request, v any) *wire.Response {
	if len(req.Body) == 0 {
		return wire.Error(400, "request body required")
	}
	if err := json.Unmarshal(req.Body, v); err != nil {
		return wire.Error(400, fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

func (s *Service) handleHealth(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	return wire.JSON(200, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}), nil
}

func (s *Service) handleCommitments(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	commitments, err := s.notion.Commitments(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]any{"commitments": commitments, "count": len(commitments)}), nil
}

func (s *Service) handleOverdue(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	commitments, err := s.notion.OverdueCommitments(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]any{"commitments": commitments, "count": len(commitments)}), nil
}

func (s *Service) handleCommitmentScan(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	n, err := s.notion.ScanCommitments(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]int{"scanned": n}), nil
}

func (s *Service) handleTodoScan(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	n, err := s.notion.ScanTodos(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]int{"scanned": n}), nil
}

func (s *Service) handleBriefing(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	params := cacheParams(req.Query)
	return s.cached(ctx, "/api/briefing", params, briefingTTL, func(ctx context.Context) (any, error) {
		text, err := s.brain.Briefing(ctx, params["date"])
		if err != nil {
			return nil, err
		}
		return map[string]string{"briefing": text}, nil
	})
}

func (s *Service) handleCalendar(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	params := cacheParams(req.Query)
	return s.cached(ctx, "/api/calendar", params, calendarTTL, func(ctx context.Context) (any, error) {
		events, err := s.calendar.Events(ctx, params["day"])
		if err != nil {
			return nil, err
		}
		return map[string]any{"events": events, "count": len(events)}, nil
	})
}

func (s *Service) handleSummaries(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	params := cacheParams(req.Query)
	return s.cached(ctx, "/api/summaries", params, summaryTTL, func(ctx context.Context) (any, error) {
		summaries, err := s.brain.Summaries(ctx, params["window"])
		if err != nil {
			return nil, err
		}
		return map[string]any{"summaries": summaries, "count": len(summaries)}, nil
	})
}

func (s *Service) handleDrafts(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	params := cacheParams(req.Query)
	return s.cached(ctx, "/api/drafts", params, draftsTTL, func(ctx context.Context) (any, error) {
		drafts, err := s.brain.Drafts(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"drafts": drafts, "count": len(drafts)}, nil
	})
}

func (s *Service) handleAttention(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	text, err := s.brain.AttentionCheck(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]string{"attention": text}), nil
}

func (s *Service) handleQuery(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	var body struct {
		Query string `json:"query"`
	}
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}
	if body.Query == "" {
		return wire.Error(400, "query must not be empty"), nil
	}

	answer, err := s.brain.Answer(ctx, body.Query)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]string{"response": answer}), nil
}

func (s *Service) handleRecentActivity(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	limit := defaultRecentLimit
	if raw := req.Query["limit"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recent, err := s.cache.Recent(limit)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]any{"recent": recent, "count": len(recent)}), nil
}

func (s *Service) handleRecentActivityDelete(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	params := cacheParams(req.Query)
	endpoint := params["endpoint"]
	if endpoint == "" {
		return wire.Error(400, "endpoint parameter required"), nil
	}
	delete(params, "endpoint")

	existed, err := s.cache.Delete(endpoint, params)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]bool{"deleted": existed}), nil
}

func (s *Service) handleCacheClear(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	if err := s.cache.DeleteAll(); err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]bool{"cleared": true}), nil
}

func (s *Service) handlePasscodeUpdate(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	var body struct {
		Passcode string `json:"passcode"`
	}
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}
	if body.Passcode == "" {
		return wire.Error(400, "passcode must not be empty"), nil
	}

	// In-memory first so the rotation takes effect immediately;
	// persistence failures only lose the value across restarts.
	s.passcode.Set(body.Passcode)
	if err := s.configs.SavePasscode(ctx, body.Passcode); err != nil {
		s.logger.Warn().Err(err).Msg("persist passcode failed")
	}
	return wire.JSON(200, map[string]bool{"updated": true}), nil
}

func (s *Service) handleNotionConfigGet(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	cfg, err := s.notion.Config(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, cfg), nil
}

func (s *Service) handleNotionConfigSet(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	var cfg NotionConfig
	if resp := decodeBody(req, &cfg); resp != nil {
		return resp, nil
	}
	if err := s.notion.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]bool{"saved": true}), nil
}

func (s *Service) handleAgentMemory(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	memories, err := s.agent.Memory(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]any{"memories": memories, "count": len(memories)}), nil
}

func (s *Service) handleAgentSkills(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	skills, err := s.agent.Skills(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]any{"skills": skills, "count": len(skills)}), nil
}

func (s *Service) handleAgentTeach(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	var body struct {
		Instruction string `json:"instruction"`
	}
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}
	if body.Instruction == "" {
		return wire.Error(400, "instruction must not be empty"), nil
	}

	result, err := s.agent.Teach(ctx, body.Instruction)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]string{"learned": result}), nil
}

func (s *Service) handleAgentForget(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	var body struct {
		Topic string `json:"topic"`
	}
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}
	if body.Topic == "" {
		return wire.Error(400, "topic must not be empty"), nil
	}

	forgotten, err := s.agent.Forget(ctx, body.Topic)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]bool{"forgotten": forgotten}), nil
}

func (s *Service) handleAgentConsolidate(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	result, err := s.agent.Consolidate(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, map[string]string{"result": result}), nil
}

func (s *Service) handleAgentStatus(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	status, err := s.agent.Status(ctx)
	if err != nil {
		return nil, err
	}
	return wire.JSON(200, status), nil
}
