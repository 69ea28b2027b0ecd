package utils

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
)

func TestValidateXPAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    int
		allowZero bool
		wantErr   string
	}{
		{"multiple of five", 25, false, ""},
		{"not a multiple", 12, false, "multiple of 5"},
		{"zero rejected for add", 0, false, "must be positive"},
		{"zero allowed for set", 0, true, ""},
		{"negative set", -5, true, "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateXPAmount(tt.amount, 5, tt.allowZero)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestIsStaff(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		perms discord.Permissions
		want  bool
	}{
		{"staff role any case", []string{"member", "STAFF"}, 0, true},
		{"admin role", []string{"Admin"}, 0, true},
		{"manage roles", nil, discord.PermissionManageRoles, true},
		{"administrator", nil, discord.PermissionAdministrator, true},
		{"plain member", []string{"Level 3", "Quests"}, discord.PermissionSendMessages, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStaff(tt.roles, tt.perms); got != tt.want {
				t.Errorf("IsStaff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "░░░░░░░░░░░░░░░░░░░░ 0/100 XP"},
		{50, "██████████░░░░░░░░░░ 50/100 XP"},
		{11700, "MAX LEVEL REACHED"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.xp); !strings.Contains(got, tt.want) {
			t.Errorf("ProgressBar(%d) = %q, want %q", tt.xp, got, tt.want)
		}
	}
}
