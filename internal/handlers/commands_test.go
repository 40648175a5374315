package handlers

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/config"
)

func findCommand(t *testing.T, name string) *discordgo.ApplicationCommand {
	t.Helper()
	for _, c := range commandDefinitions() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("command %q not defined", name)
	return nil
}

func TestForceSkipIsAdminOnly(t *testing.T) {
	c := findCommand(t, "forceskip")
	if c.DefaultMemberPermissions == nil {
		t.Fatal("forceskip must set default member permissions")
	}
	if *c.DefaultMemberPermissions&discordgo.PermissionAdministrator == 0 {
		t.Fatalf("forceskip permissions = %d, want administrator", *c.DefaultMemberPermissions)
	}
	if p := findCommand(t, "skip").DefaultMemberPermissions; p != nil {
		t.Fatal("skip must stay open to everyone")
	}
}

func TestPresenceData(t *testing.T) {
	cfg := &config.Config{BotStatus: "dnd", BotActivity: "tunes"}
	d := presenceData(cfg)
	if d.Status != "dnd" {
		t.Fatalf("status = %q, want dnd", d.Status)
	}
	if len(d.Activities) != 1 || d.Activities[0].Name != "tunes" || d.Activities[0].Type != discordgo.ActivityTypeListening {
		t.Fatalf("activities = %+v", d.Activities)
	}

	cfg.BotActivity = ""
	if d := presenceData(cfg); len(d.Activities) != 0 {
		t.Fatalf("activities with no configured activity = %+v", d.Activities)
	}
}
