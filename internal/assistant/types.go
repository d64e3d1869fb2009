package assistant

import "time"

// Commitment is one tracked promise pulled from the workspace.
type Commitment struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Owner   string     `json:"owner,omitempty"`
	Due     *time.Time `json:"due,omitempty"`
	Overdue bool       `json:"overdue"`
}

// Event is one calendar entry.
type Event struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
}

// Summary is a condensed view of one message thread or channel.
type Summary struct {
	Channel string    `json:"channel"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Draft is a reply prepared for the user to review.
type Draft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotionConfig is the workspace connection the user can edit from the
// web UI.
type NotionConfig struct {
	Token          string `json:"token"`
	CommitmentsDB  string `json:"commitments_db"`
	TodosDB        string `json:"todos_db"`
	WorkspaceTitle string `json:"workspace_title,omitempty"`
}

// AgentStatus summarizes the agent's long-lived state.
type AgentStatus struct {
	Memories         int       `json:"memories"`
	Skills           int       `json:"skills"`
	LastConsolidated time.Time `json:"last_consolidated"`
}
