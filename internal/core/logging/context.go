package logging

import "context"

type contextKey string

const (
	checklistIDKey contextKey = "checklist_id"
	commandKey     contextKey = "command"
)

// WithChecklistID adds the ID of the checklist being edited to the context.
func WithChecklistID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, checklistIDKey, id)
}

// WithCommand adds the name of the CLI command being run to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetChecklistID retrieves the checklist ID from the context.
// Returns empty string if not present.
func GetChecklistID(ctx context.Context) string {
	if id, ok := ctx.Value(checklistIDKey).(string); ok {
		return id
	}
	return ""
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}
