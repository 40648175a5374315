package monitor

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts announcements to a fixed channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{session: session, channelID: channelID}
}

var statusMessages = map[string]string{
	"INATIVO":   "company **%s** - **%s** has been marked **INACTIVE**.",
	"BAIXA":     "company **%s** - **%s** has been **CLOSED**. Its documents are available on the portal.",
	"DEVOLVIDA": "company **%s** - **%s** has been **RETURNED**.",
	"SUSPENSA":  "company **%s** - **%s** is now **SUSPENDED**.",
}

func (n *DiscordNotifier) StatusChanged(ctx context.Context, rec Record, previous string) error {
	tmpl, ok := statusMessages[rec.Status]
	if !ok {
		tmpl = "company **%s** - **%s** changed status to " + rec.Status + "."
	}
	msg := fmt.Sprintf("Hello team @everyone.\n\n"+tmpl+"\n\n(previously %s)", rec.Code, rec.Name, previous)
	_, err := n.session.ChannelMessageSend(n.channelID, msg, discordgo.WithContext(ctx))
	return err
}

func (n *DiscordNotifier) NewCompany(ctx context.Context, rec Record) error {
	msg := fmt.Sprintf(
		"Hello team @everyone.\n\nA new company has been added:\n• Code: **%s**\n• Name: **%s**\n• Status: **%s**",
		rec.Code, rec.Name, rec.Status,
	)
	_, err := n.session.ChannelMessageSend(n.channelID, msg, discordgo.WithContext(ctx))
	return err
}
