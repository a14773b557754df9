package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLIService runs a command line program once per prompt. The prompt is
// passed as the last argument; stdout is the reply.
type CLIService struct {
	Command string
	Args    []string
}

// NewCLIService returns a service that invokes command with args followed by the prompt.
func NewCLIService(command string, args ...string) *CLIService {
	return &CLIService{Command: command, Args: args}
}

func (s *CLIService) Query(ctx context.Context, prompt string) (Response, error) {
	args := make([]string, 0, len(s.Args)+1)
	args = append(args, s.Args...)
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, s.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Response{}, fmt.Errorf("failed to run %s: %w", s.Command, err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = exitErr.Error()
		}
		return Response{
			ReturnCode: exitErr.ExitCode(),
			Output:     stdout.String(),
			Error:      msg,
		}, nil
	}

	return Response{Output: stdout.String()}, nil
}
