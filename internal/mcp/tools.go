// ABOUTME: MCP tool implementations for routines, exercises and sets.
// ABOUTME: Failed store results become tool errors carrying the store's message.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/routines"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerRoutineTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List workout routines with their exercise and set counts",
	}, s.handleListRoutines)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_routine",
		Description: "Get a routine with all its exercises and sets",
	}, s.handleGetRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_routine",
		Description: "Create a new, empty routine",
	}, s.handleAddRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_routine",
		Description: "Rename a routine",
	}, s.handleRenameRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_routine",
		Description: "Delete a routine and its exercises",
	}, s.handleDeleteRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to a routine with the default 60s rest",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_exercise",
		Description: "Rename an exercise within its routine",
	}, s.handleRenameExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_rest_time",
		Description: "Set the rest interval in seconds after each set of an exercise",
	}, s.handleSetRestTime)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Remove an exercise from a routine",
	}, s.handleDeleteExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Add a planned set to an exercise, optionally with reps and weight",
	}, s.handleAddSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_set",
		Description: "Change the reps and weight of a planned set",
	}, s.handleUpdateSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_set",
		Description: "Flip the completed flag of a planned set",
	}, s.handleToggleSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_set",
		Description: "Remove a planned set from an exercise",
	}, s.handleDeleteSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_data",
		Description: "Export routines and history as json, yaml or markdown",
	}, s.handleExport)
}

// Tool input/output types

type emptyInput struct{}

type routineRef struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
}

type nameInput struct {
	Name string `json:"name" jsonschema:"Name between 2 and 120 characters"`
}

type renameRoutineInput struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Name    string `json:"name" jsonschema:"New routine name"`
}

type addExerciseInput struct {
	Routine string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Name    string `json:"name" jsonschema:"Exercise name, unique within the routine"`
}

type exerciseRef struct {
	Routine  string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
}

type renameExerciseInput struct {
	Routine  string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Name     string `json:"name" jsonschema:"New exercise name"`
}

type restTimeInput struct {
	Routine  string  `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string  `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Seconds  float64 `json:"seconds" jsonschema:"Rest time in seconds; invalid values reset to 60"`
}

type addSetInput struct {
	Routine  string  `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string  `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Reps     float64 `json:"reps,omitempty" jsonschema:"Planned reps"`
	Weight   float64 `json:"weight,omitempty" jsonschema:"Planned weight"`
}

type setRef struct {
	Routine  string `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Set      string `json:"set" jsonschema:"Set position (1-based), ID or ID prefix"`
}

type updateSetInput struct {
	Routine  string  `json:"routine" jsonschema:"Routine ID, ID prefix or name"`
	Exercise string  `json:"exercise" jsonschema:"Exercise position (1-based), ID, ID prefix or name"`
	Set      string  `json:"set" jsonschema:"Set position (1-based), ID or ID prefix"`
	Reps     float64 `json:"reps" jsonschema:"Reps; invalid values become 0"`
	Weight   float64 `json:"weight" jsonschema:"Weight; invalid values become 0"`
}

type exportInput struct {
	Format string `json:"format,omitempty" jsonschema:"One of json, yaml or markdown (default json)"`
}

type resultOutput struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type routineSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Exercises int    `json:"exercises"`
	Sets      int    `json:"sets"`
}

type exportOutput struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

// fromResult turns a store Result into tool output, surfacing failures as tool errors.
func fromResult(res models.Result) (*mcp.CallToolResult, resultOutput, error) {
	if !res.Success {
		return nil, resultOutput{}, errors.New(res.Message)
	}
	return nil, resultOutput{Message: res.Message, ID: res.ID}, nil
}

func (s *Server) routine(ref string) (models.Routine, error) {
	r, ok := s.app.Routines.Resolve(ref)
	if !ok {
		return models.Routine{}, fmt.Errorf("routine not found: %s", ref)
	}
	return r, nil
}

func (s *Server) exercise(routineRef, exerciseRef string) (models.Routine, models.Exercise, error) {
	r, err := s.routine(routineRef)
	if err != nil {
		return models.Routine{}, models.Exercise{}, err
	}
	ex, ok := routines.ResolveExercise(r, exerciseRef)
	if !ok {
		return models.Routine{}, models.Exercise{}, fmt.Errorf("exercise not found in %s: %s", r.Name, exerciseRef)
	}
	return r, ex, nil
}

func (s *Server) set(in setRef) (models.Routine, models.Exercise, models.Set, error) {
	r, ex, err := s.exercise(in.Routine, in.Exercise)
	if err != nil {
		return models.Routine{}, models.Exercise{}, models.Set{}, err
	}
	set, ok := routines.ResolveSet(ex, in.Set)
	if !ok {
		return models.Routine{}, models.Exercise{}, models.Set{}, fmt.Errorf("set not found in %s: %s", ex.Name, in.Set)
	}
	return r, ex, set, nil
}

// Tool handlers

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	all := s.app.Routines.Routines()
	if len(all) == 0 {
		return nil, map[string]any{"message": "No routines found."}, nil
	}

	out := make([]routineSummary, 0, len(all))
	for _, r := range all {
		out = append(out, routineSummary{
			ID:        r.ID,
			Name:      r.Name,
			Exercises: len(r.Exercises),
			Sets:      r.SetCount(),
		})
	}
	return nil, map[string]any{"routines": out}, nil
}

func (s *Server) handleGetRoutine(ctx context.Context, req *mcp.CallToolRequest, input routineRef) (*mcp.CallToolResult, any, error) {
	r, err := s.routine(input.Routine)
	if err != nil {
		return nil, nil, err
	}
	return nil, r, nil
}

func (s *Server) handleAddRoutine(ctx context.Context, req *mcp.CallToolRequest, input nameInput) (*mcp.CallToolResult, resultOutput, error) {
	return fromResult(s.app.Routines.AddRoutine(input.Name))
}

func (s *Server) handleRenameRoutine(ctx context.Context, req *mcp.CallToolRequest, input renameRoutineInput) (*mcp.CallToolResult, resultOutput, error) {
	r, err := s.routine(input.Routine)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.UpdateRoutine(r.ID, input.Name))
}

func (s *Server) handleDeleteRoutine(ctx context.Context, req *mcp.CallToolRequest, input routineRef) (*mcp.CallToolResult, resultOutput, error) {
	r, err := s.routine(input.Routine)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.RemoveRoutine(r.ID))
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, resultOutput, error) {
	r, err := s.routine(input.Routine)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.AddExercise(r.ID, input.Name))
}

func (s *Server) handleRenameExercise(ctx context.Context, req *mcp.CallToolRequest, input renameExerciseInput) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, err := s.exercise(input.Routine, input.Exercise)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.UpdateExercise(r.ID, ex.ID, input.Name))
}

func (s *Server) handleSetRestTime(ctx context.Context, req *mcp.CallToolRequest, input restTimeInput) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, err := s.exercise(input.Routine, input.Exercise)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.UpdateExerciseRestTime(r.ID, ex.ID, input.Seconds))
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseRef) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, err := s.exercise(input.Routine, input.Exercise)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.RemoveExercise(r.ID, ex.ID))
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, err := s.exercise(input.Routine, input.Exercise)
	if err != nil {
		return nil, resultOutput{}, err
	}
	res := s.app.Routines.AddSet(r.ID, ex.ID)
	if res.Success && (input.Reps != 0 || input.Weight != 0) {
		if upd := s.app.Routines.UpdateSet(r.ID, ex.ID, res.ID, input.Reps, input.Weight); !upd.Success {
			return fromResult(upd)
		}
	}
	return fromResult(res)
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, set, err := s.set(setRef{Routine: input.Routine, Exercise: input.Exercise, Set: input.Set})
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.UpdateSet(r.ID, ex.ID, set.ID, input.Reps, input.Weight))
}

func (s *Server) handleToggleSet(ctx context.Context, req *mcp.CallToolRequest, input setRef) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, set, err := s.set(input)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.ToggleSetCompletion(r.ID, ex.ID, set.ID))
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input setRef) (*mcp.CallToolResult, resultOutput, error) {
	r, ex, set, err := s.set(input)
	if err != nil {
		return nil, resultOutput{}, err
	}
	return fromResult(s.app.Routines.RemoveSet(r.ID, ex.ID, set.ID))
}

func (s *Server) handleExport(ctx context.Context, req *mcp.CallToolRequest, input exportInput) (*mcp.CallToolResult, exportOutput, error) {
	format := input.Format
	if format == "" {
		format = "json"
	}
	data := storage.NewExport(s.app.Routines.Routines(), s.app.History.Sessions())

	var content string
	switch format {
	case "json":
		b, err := data.JSON()
		if err != nil {
			return nil, exportOutput{}, fmt.Errorf("failed to encode export: %w", err)
		}
		content = string(b)
	case "yaml":
		b, err := data.YAML()
		if err != nil {
			return nil, exportOutput{}, fmt.Errorf("failed to encode export: %w", err)
		}
		content = string(b)
	case "markdown":
		content = data.Markdown(nil)
	default:
		return nil, exportOutput{}, fmt.Errorf("unknown format: %s (want json, yaml or markdown)", format)
	}
	return nil, exportOutput{Format: format, Content: content}, nil
}
