package service

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/lberndt/gatehouse/pkg/slogx"
)

// AccountCreator creates the downstream account an invitation grants. The
// production implementation shells out to the homeserver's registration
// tool; tests substitute a fake.
type AccountCreator interface {
	CreateAccount(ctx context.Context, username, password string) error
}

// DefaultRegisterCommand is the stock Synapse registration invocation.
const DefaultRegisterCommand = "register_new_matrix_user --no-admin" +
	" -c /etc/synapse/homeserver.yaml -u {username} -p {password} http://127.0.0.1:8008"

// CommandAccountCreator runs a configurable command template to create the
// account. The template is split into argv first and the {username} and
// {password} placeholders substituted per argument, so credential values
// never pass through a shell.
type CommandAccountCreator struct {
	Template string // zero means DefaultRegisterCommand
}

func (c *CommandAccountCreator) CreateAccount(ctx context.Context, username, password string) error {
	log := slogx.FromContext(ctx)

	template := c.Template
	if template == "" {
		template = DefaultRegisterCommand
	}

	argv := strings.Fields(template)
	if len(argv) == 0 {
		return fmt.Errorf("empty register command template")
	}
	for i, arg := range argv {
		arg = strings.ReplaceAll(arg, "{username}", username)
		argv[i] = strings.ReplaceAll(arg, "{password}", password)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("register command failed",
			slog.String("command", argv[0]),
			slog.String("output", string(out)),
			slog.Any("error", err),
		)
		return fmt.Errorf("register command failed: %w", err)
	}

	log.Info("downstream account created", slog.String("username", username))
	return nil
}

// LogOnlyAccountCreator records what would have been created without
// invoking anything. Used in test mode deployments.
type LogOnlyAccountCreator struct{}

func (LogOnlyAccountCreator) CreateAccount(ctx context.Context, username, _ string) error {
	slogx.FromContext(ctx).Info("test mode: skipping downstream account creation",
		slog.String("username", username),
	)
	return nil
}
