// Package notifier pushes a short feed of trip activity to a chat channel.
package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Action names what happened to a trip.
type Action string

const (
	ActionTripCreated   Action = "created the trip"
	ActionHotelAdded    Action = "added a hotel"
	ActionHotelVoted    Action = "voted on a hotel"
	ActionActivityAdded Action = "added an activity"
	ActionActivityRated Action = "rated an activity"
	ActionPackingAdded  Action = "added a packing item"
	ActionPackingToggle Action = "updated a packing assignment"
	ActionCommented     Action = "commented"
)

// Event is one entry in the activity feed.
type Event struct {
	TripID    string
	TripTitle string
	Actor     domain.Actor
	Action    Action
	Detail    string
}

// Notifier delivers events. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// MessageSender is the part of *discordgo.Session the notifier needs.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts events to a Discord channel.
type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// Format renders e as the message body posted to the channel.
func Format(e Event) string {
	msg := fmt.Sprintf("🧳 **%s** (`%s`)\n**%s** %s", e.TripTitle, e.TripID, e.Actor.Name, e.Action)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (n *DiscordNotifier) Notify(ctx context.Context, e Event) error {
	if n.session == nil {
		return fmt.Errorf("notifier.DiscordNotifier.Notify: discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("notifier.DiscordNotifier.Notify: discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, Format(e), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("notifier.DiscordNotifier.Notify: %w", err)
	}
	return nil
}
