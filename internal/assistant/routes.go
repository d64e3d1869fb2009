package assistant

import "github.com/mhoffman/alfred/internal/server"

// Register builds the dispatch table. The route set is fixed at
// startup; auth applies to everything except the public web paths.
func (s *Service) Register(r *server.Router) {
	r.Public("/", "/web/", "/web/index.html", "/web/index-notion.html")

	r.Handle("GET", "/api/health", s.handleHealth)

	r.Handle("GET", "/api/commitments", s.handleCommitments)
	r.Handle("GET", "/api/commitments/overdue", s.handleOverdue)
	r.Handle("POST", "/api/commitments/scan", s.handleCommitmentScan)
	r.Handle("POST", "/api/todos/scan", s.handleTodoScan)

	r.Handle("GET", "/api/briefing", s.handleBriefing)
	r.Handle("GET", "/api/calendar", s.handleCalendar)
	r.Handle("GET", "/api/summaries", s.handleSummaries)
	r.Handle("GET", "/api/drafts", s.handleDrafts)
	r.Handle("GET", "/api/attention", s.handleAttention)
	r.Handle("POST", "/api/query", s.handleQuery)

	r.Handle("GET", "/api/recent-activity", s.handleRecentActivity)
	r.Handle("DELETE", "/api/recent-activity/delete", s.handleRecentActivityDelete)
	r.Handle("POST", "/api/cache/clear", s.handleCacheClear)
	r.Handle("POST", "/api/config/passcode", s.handlePasscodeUpdate)
	r.Handle("GET", "/api/config/notion", s.handleNotionConfigGet)
	r.Handle("POST", "/api/config/notion", s.handleNotionConfigSet)

	r.Handle("GET", "/api/agent/memory", s.handleAgentMemory)
	r.Handle("GET", "/api/agent/skills", s.handleAgentSkills)
	r.Handle("POST", "/api/agent/teach", s.handleAgentTeach)
	r.Handle("POST", "/api/agent/forget", s.handleAgentForget)
	r.Handle("POST", "/api/agent/consolidate", s.handleAgentConsolidate)
	r.Handle("GET", "/api/agent/status", s.handleAgentStatus)
}
