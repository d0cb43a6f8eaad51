package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandAccountCreator_RunsTemplate(t *testing.T) {
	c := &CommandAccountCreator{Template: "true {username} {password}"}
	require.NoError(t, c.CreateAccount(t.Context(), "alice", "Str0ng-pass!"))
}

func TestCommandAccountCreator_ReportsCommandFailure(t *testing.T) {
	c := &CommandAccountCreator{Template: "false {username}"}
	require.Error(t, c.CreateAccount(t.Context(), "alice", "Str0ng-pass!"))
}

func TestCommandAccountCreator_EmptyTemplateAfterTrim(t *testing.T) {
	c := &CommandAccountCreator{Template: "   "}
	require.Error(t, c.CreateAccount(t.Context(), "alice", "Str0ng-pass!"))
}

func TestLogOnlyAccountCreator(t *testing.T) {
	require.NoError(t, LogOnlyAccountCreator{}.CreateAccount(t.Context(), "alice", "Str0ng-pass!"))
}
