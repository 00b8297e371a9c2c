// ABOUTME: MCP tool implementations for live workout sessions and history.
// ABOUTME: Covers start, status, set edits, finish, abandon and history queries.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/history"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerSessionTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a workout session from a routine; all sets begin incomplete",
	}, s.handleStartSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "session_status",
		Description: "Show the live session with elapsed time, stats and running rest timers",
	}, s.handleSessionStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_session_set",
		Description: "Mark a set in the live session done or not done; completing starts the rest timer",
	}, s.handleToggleSessionSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "edit_session_set",
		Description: "Change reps and weight of a set in the live session",
	}, s.handleEditSessionSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish the live session and record it in history",
	}, s.handleFinishSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "abandon_session",
		Description: "Discard the live session without recording it",
	}, s.handleAbandonSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List finished sessions, most recent first, optionally for one routine",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a finished session with every exercise and set",
	}, s.handleGetSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "session_summary",
		Description: "Aggregate volume, sets and duration over history, optionally for one routine",
	}, s.handleSessionSummary)
}

type sessionSetRef struct {
	Exercise string `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Set      string `json:"set" jsonschema:"Set position (1-based), ID or ID prefix"`
}

type editSessionSetInput struct {
	Exercise string  `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Set      string  `json:"set" jsonschema:"Set position (1-based), ID or ID prefix"`
	Reps     float64 `json:"reps" jsonschema:"Reps performed; invalid values become 0"`
	Weight   float64 `json:"weight" jsonschema:"Weight used; invalid values become 0"`
}

type listSessionsInput struct {
	Routine string `json:"routine,omitempty" jsonschema:"Routine ID, ID prefix or name to filter by"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type getSessionInput struct {
	ID string `json:"id" jsonschema:"Session ID or prefix"`
}

type summaryInput struct {
	Routine string `json:"routine,omitempty" jsonschema:"Routine ID, ID prefix or name; empty summarizes everything"`
}

type timerStatus struct {
	ExerciseID       string `json:"exercise_id"`
	Exercise         string `json:"exercise"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

type sessionStatus struct {
	Active     bool                   `json:"active"`
	Elapsed    string                 `json:"elapsed,omitempty"`
	Session    *models.WorkoutSession `json:"session,omitempty"`
	RestTimers []timerStatus          `json:"rest_timers,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

type sessionListItem struct {
	ID          string  `json:"id"`
	RoutineName string  `json:"routine_name"`
	StartTime   string  `json:"start_time"`
	Duration    string  `json:"duration"`
	TotalVolume float64 `json:"total_volume"`
	Sets        int     `json:"sets_completed"`
}

// sessionError maps engine sentinels to messages a model can act on.
func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		return errors.New("no active workout session; call start_session first")
	case errors.Is(err, session.ErrSessionActive):
		return errors.New("a workout session is already active; finish or abandon it first")
	case errors.Is(err, session.ErrNotFound):
		return errors.New("exercise or set not found in the live session")
	default:
		return err
	}
}

func (s *Server) status() sessionStatus {
	ws, ok := s.app.Engine.Current()
	if !ok {
		return sessionStatus{Active: false, Message: "No active session."}
	}

	out := sessionStatus{
		Active:  true,
		Elapsed: models.FormatDuration(int(s.app.Engine.Elapsed().Seconds())),
		Session: &ws,
	}
	timers := s.app.Engine.Timers()
	for _, ex := range ws.Exercises {
		if left, running := timers.Remaining(ex.ID); running {
			out.RestTimers = append(out.RestTimers, timerStatus{
				ExerciseID:       ex.ID,
				Exercise:         ex.Name,
				RemainingSeconds: int(left.Seconds() + 0.5),
			})
		}
	}
	return out
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input routineRef) (*mcp.CallToolResult, any, error) {
	r, err := s.routine(input.Routine)
	if err != nil {
		return nil, nil, err
	}
	ws, err := s.app.Engine.Start(r.ID, r.Name, r.Exercises)
	if err != nil {
		return nil, nil, sessionError(err)
	}
	return nil, ws, nil
}

func (s *Server) handleSessionStatus(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	return nil, s.status(), nil
}

func (s *Server) handleToggleSessionSet(ctx context.Context, req *mcp.CallToolRequest, input sessionSetRef) (*mcp.CallToolResult, any, error) {
	exID, setID, err := s.app.Engine.Locate(input.Exercise, input.Set)
	if err != nil {
		return nil, nil, sessionError(err)
	}
	if _, err := s.app.Engine.ToggleSet(ctx, exID, setID); err != nil {
		return nil, nil, sessionError(err)
	}
	return nil, s.status(), nil
}

func (s *Server) handleEditSessionSet(ctx context.Context, req *mcp.CallToolRequest, input editSessionSetInput) (*mcp.CallToolResult, any, error) {
	exID, setID, err := s.app.Engine.Locate(input.Exercise, input.Set)
	if err != nil {
		return nil, nil, sessionError(err)
	}
	if _, err := s.app.Engine.EditSet(exID, setID, input.Reps, input.Weight); err != nil {
		return nil, nil, sessionError(err)
	}
	return nil, s.status(), nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	ws, ok := s.app.Engine.Finish(ctx)
	if !ok {
		return nil, nil, sessionError(session.ErrNoActiveSession)
	}
	return nil, ws, nil
}

func (s *Server) handleAbandonSession(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, resultOutput, error) {
	if !s.app.Engine.Abandon(ctx) {
		return nil, resultOutput{}, sessionError(session.ErrNoActiveSession)
	}
	return nil, resultOutput{Message: "Session abandoned"}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	sessions := s.app.History.Sessions()
	if input.Routine != "" {
		r, err := s.routine(input.Routine)
		if err != nil {
			return nil, nil, err
		}
		sessions = s.app.Engine.SessionsByRoutine(r.ID)
	}
	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No sessions found."}, nil
	}
	if len(sessions) > input.Limit {
		sessions = sessions[:input.Limit]
	}

	items := make([]sessionListItem, 0, len(sessions))
	for _, ws := range sessions {
		items = append(items, sessionListItem{
			ID:          ws.ID,
			RoutineName: ws.RoutineName,
			StartTime:   ws.StartTime.Format("2006-01-02 15:04"),
			Duration:    models.FormatDuration(ws.Duration),
			TotalVolume: ws.TotalVolume,
			Sets:        ws.TotalSetsCompleted,
		})
	}
	return nil, map[string]any{"sessions": items}, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input getSessionInput) (*mcp.CallToolResult, any, error) {
	ws, err := s.app.History.Get(input.ID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, nil, fmt.Errorf("session not found: %s", input.ID)
		}
		return nil, nil, err
	}
	return nil, ws, nil
}

func (s *Server) handleSessionSummary(ctx context.Context, req *mcp.CallToolRequest, input summaryInput) (*mcp.CallToolResult, any, error) {
	routineID := ""
	if input.Routine != "" {
		r, err := s.routine(input.Routine)
		if err != nil {
			return nil, nil, err
		}
		routineID = r.ID
	}
	return nil, s.app.History.Summary(routineID), nil
}
