package assistant

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the placeholder collaborators when
// no real backend clients have been wired in.
var ErrNotConfigured = errors.New("backend not configured: connect the AI, Notion and calendar clients")

// Brain runs natural-language work through the AI client.
type Brain interface {
	Answer(ctx context.Context, query string) (string, error)
	Briefing(ctx context.Context, date string) (string, error)
	AttentionCheck(ctx context.Context) (string, error)
	Summaries(ctx context.Context, window string) ([]Summary, error)
	Drafts(ctx context.Context) ([]Draft, error)
}

// Notion is the workspace client behind commitments, todos and the
// editable workspace configuration.
type Notion interface {
	Commitments(ctx context.Context) ([]Commitment, error)
	OverdueCommitments(ctx context.Context) ([]Commitment, error)
	ScanCommitments(ctx context.Context) (int, error)
	ScanTodos(ctx context.Context) (int, error)
	Config(ctx context.Context) (NotionConfig, error)
	SaveConfig(ctx context.Context, cfg NotionConfig) error
}

// Calendar provides the day's events.
type Calendar interface {
	Events(ctx context.Context, day string) ([]Event, error)
}

// Agent is the long-lived memory and skill layer.
type Agent interface {
	Memory(ctx context.Context) ([]string, error)
	Skills(ctx context.Context) ([]string, error)
	Teach(ctx context.Context, instruction string) (string, error)
	Forget(ctx context.Context, topic string) (bool, error)
	Consolidate(ctx context.Context) (string, error)
	Status(ctx context.Context) (AgentStatus, error)
}

// ConfigStore persists the rotated passcode outside process memory.
type ConfigStore interface {
	SavePasscode(ctx context.Context, passcode string) error
}

// Unconfigured satisfies every collaborator interface by failing with
// ErrNotConfigured. The server still comes up and serves its web page
// and admin endpoints without any backend wired in.
type Unconfigured struct{}

func (Unconfigured) Answer(context.Context, string) (string, error)   { return "", ErrNotConfigured }
func (Unconfigured) Briefing(context.Context, string) (string, error) { return "", ErrNotConfigured }
func (Unconfigured) AttentionCheck(context.Context) (string, error)   { return "", ErrNotConfigured }
func (Unconfigured) Summaries(context.Context, string) ([]Summary, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) Drafts(context.Context) ([]Draft, error) { return nil, ErrNotConfigured }
func (Unconfigured) Commitments(context.Context) ([]Commitment, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) OverdueCommitments(context.Context) ([]Commitment, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) ScanCommitments(context.Context) (int, error) { return 0, ErrNotConfigured }
func (Unconfigured) ScanTodos(context.Context) (int, error)       { return 0, ErrNotConfigured }
func (Unconfigured) Config(context.Context) (NotionConfig, error) {
	return NotionConfig{}, ErrNotConfigured
}
func (Unconfigured) SaveConfig(context.Context, NotionConfig) error { return ErrNotConfigured }
func (Unconfigured) Events(context.Context, string) ([]Event, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) Memory(context.Context) ([]string, error)      { return nil, ErrNotConfigured }
func (Unconfigured) Skills(context.Context) ([]string, error)      { return nil, ErrNotConfigured }
func (Unconfigured) Teach(context.Context, string) (string, error) { return "", ErrNotConfigured }
func (Unconfigured) Forget(context.Context, string) (bool, error)  { return false, ErrNotConfigured }
func (Unconfigured) Consolidate(context.Context) (string, error)   { return "", ErrNotConfigured }
func (Unconfigured) Status(context.Context) (AgentStatus, error) {
	return AgentStatus{}, ErrNotConfigured
}
func (Unconfigured) SavePasscode(context.Context, string) error { return ErrNotConfigured }
