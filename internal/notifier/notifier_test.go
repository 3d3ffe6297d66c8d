package notifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/notifier"
)

// mockSender is a hand-written test double for notifier.MessageSender.
type mockSender struct {
	send func(channelID, content string) (*discordgo.Message, error)
}

func (m *mockSender) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return m.send(channelID, content)
}

var _ notifier.MessageSender = (*mockSender)(nil)

func sampleEvent() notifier.Event {
	return notifier.Event{
		TripID:    "k3x9q0abc",
		TripTitle: "Lisbon",
		Actor:     domain.Actor{ID: "1", Name: "Alice"},
		Action:    notifier.ActionHotelVoted,
		Detail:    "awesome",
	}
}

func TestFormat(t *testing.T) {
	got := notifier.Format(sampleEvent())
	assert.Equal(t, "🧳 **Lisbon** (`k3x9q0abc`)\n**Alice** voted on a hotel: awesome", got)

	e := sampleEvent()
	e.Detail = ""
	assert.Equal(t, "🧳 **Lisbon** (`k3x9q0abc`)\n**Alice** voted on a hotel", notifier.Format(e))
}

func TestDiscordNotifier_Notify_OK(t *testing.T) {
	var gotChannel, gotContent string
	sender := &mockSender{send: func(channelID, content string) (*discordgo.Message, error) {
		gotChannel, gotContent = channelID, content
		return &discordgo.Message{}, nil
	}}

	err := notifier.NewDiscordNotifier(sender, "chan-1").Notify(context.Background(), sampleEvent())

	require.NoError(t, err)
	assert.Equal(t, "chan-1", gotChannel)
	assert.Contains(t, gotContent, "Alice")
}

func TestDiscordNotifier_Notify_SendError(t *testing.T) {
	boom := errors.New("rate limited")
	sender := &mockSender{send: func(string, string) (*discordgo.Message, error) {
		return nil, boom
	}}

	err := notifier.NewDiscordNotifier(sender, "chan-1").Notify(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, boom)
}

func TestDiscordNotifier_Notify_Misconfigured(t *testing.T) {
	err := notifier.NewDiscordNotifier(nil, "chan-1").Notify(context.Background(), sampleEvent())
	assert.Error(t, err)

	sender := &mockSender{send: func(string, string) (*discordgo.Message, error) {
		t.Fatal("should not send without a channel")
		return nil, nil
	}}
	err = notifier.NewDiscordNotifier(sender, "").Notify(context.Background(), sampleEvent())
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NoError(t, notifier.Nop{}.Notify(context.Background(), sampleEvent()))
}
