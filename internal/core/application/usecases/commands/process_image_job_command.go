package commands

import (
	"errors"

	"foodfast/internal/pkg/guard"
)

var ErrProcessImageJobCommandIsNotConstructed = errors.New(
	"ProcessImageJobCommand must be created via NewProcessImageJobCommand constructor",
)

// ProcessImageJobCommand triggers processing of one pending image job.
// This is a parameterless command: the handler claims the oldest pending job
// itself, so the worker pool never has to know which job it will get.
//
// Example:
//
//	cmd := NewProcessImageJobCommand()
//	handler := NewProcessImageJobCommandHandler(uowFactory, processor, publisher)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoPendingJobs) {
//	    // queue is drained, worker goes back to waiting
//	}
type ProcessImageJobCommand struct {
	guard guard.ConstructorGuard
}

// NewProcessImageJobCommand creates a new command to process one pending job.
func NewProcessImageJobCommand() ProcessImageJobCommand {
	return ProcessImageJobCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ProcessImageJobCommand) Validate() error {
	return c.guard.Validate(ErrProcessImageJobCommandIsNotConstructed)
}
