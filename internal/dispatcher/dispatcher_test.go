package dispatcher

import (
	"context"
	"fmt"
	"testing"

	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/events"
	"chat-moderation-be/pkg/transport"
	"chat-moderation-be/pkg/transport/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

type stubDetection struct {
	scanned []*transport.Message
}

func (s *stubDetection) Scan(_ context.Context, msg *transport.Message) error {
	s.scanned = append(s.scanned, msg)
	return nil
}

type stubAlerts struct {
	autoAlerts  int
	reports     []*session.ReportResult
	escalations []*session.ModReviewResult
	verdicts    []*session.CommitteeResult
}

func (s *stubAlerts) RaiseAutoAlert(context.Context, *transport.Message, string, float64) error {
	s.autoAlerts++
	return nil
}

func (s *stubAlerts) RaiseReportAlert(_ context.Context, result *session.ReportResult) error {
	s.reports = append(s.reports, result)
	return nil
}

func (s *stubAlerts) AnnounceEscalation(_ context.Context, result *session.ModReviewResult) error {
	s.escalations = append(s.escalations, result)
	return nil
}

func (s *stubAlerts) AnnounceVerdict(_ context.Context, result *session.CommitteeResult) error {
	s.verdicts = append(s.verdicts, result)
	return nil
}

type stubKeywords struct {
	keywords []string
}

func (s *stubKeywords) List(context.Context) ([]string, error) { return s.keywords, nil }
func (s *stubKeywords) Add(_ context.Context, kw string) (bool, error) {
	s.keywords = append(s.keywords, kw)
	return true, nil
}
func (s *stubKeywords) Remove(context.Context, string) (bool, error) { return false, nil }

type stubAudit struct {
	published []events.Event
}

func (s *stubAudit) Publish(_ context.Context, event events.Event) error {
	s.published = append(s.published, event)
	return nil
}

type stubFlags struct {
	increments map[string]int64
}

func (s *stubFlags) Increment(_ context.Context, userID string) (int64, error) {
	if s.increments == nil {
		s.increments = make(map[string]int64)
	}
	s.increments[userID]++
	return s.increments[userID], nil
}

func (s *stubFlags) FlagCount(_ context.Context, userID string) (int64, error) {
	return s.increments[userID], nil
}

type fixture struct {
	chat      *memory.Chat
	d         *Dispatcher
	detection *stubDetection
	alerts    *stubAlerts
	flags     *stubFlags
	audit     *stubAudit

	guild            string
	groupChannel     string
	modChannel       string
	committeeChannel string
}

func newFixture() *fixture {
	bot := transport.User{ID: "bot", Name: "Group 1 Bot"}
	chat := memory.NewChat(bot)
	guild := "guild-1"

	f := &fixture{
		chat:             chat,
		detection:        &stubDetection{},
		alerts:           &stubAlerts{},
		flags:            &stubFlags{},
		audit:            &stubAudit{},
		guild:            guild,
		groupChannel:     chat.AddChannel(guild, "group-1"),
		modChannel:       chat.AddChannel(guild, "group-1-mod"),
		committeeChannel: chat.AddChannel(guild, "group-1-3-person-review-team"),
	}
	f.d = NewDispatcher(
		chat,
		f.detection,
		f.alerts,
		&stubKeywords{},
		f.flags,
		f.audit,
		session.DefaultReportPolicy(),
		f.groupChannel,
		f.modChannel,
		f.committeeChannel,
		nopLogger{},
	)
	return f
}

func (f *fixture) send(t *testing.T, channelID, guildID string, author transport.User, content string) {
	t.Helper()
	msg := f.chat.Seed(&transport.Message{
		GuildID:   guildID,
		ChannelID: channelID,
		Author:    author,
		Content:   content,
	})
	require.NoError(t, f.d.HandleMessage(context.Background(), msg))
}

func (f *fixture) reactToLast(t *testing.T, guildID, channelID string, user transport.User, emoji string) {
	t.Helper()
	target := f.chat.LastSent()
	require.NotNil(t, target)
	require.NoError(t, f.d.HandleReaction(context.Background(), &dto.ReactionEvent{
		MessageID: target.ID,
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    user.ID,
		Emoji:     emoji,
	}))
}

var alice = transport.User{ID: "alice", Name: "alice"}

func TestGroupChannelMessagesGoToDetection(t *testing.T) {
	f := newFixture()
	f.send(t, f.groupChannel, f.guild, alice, "hello everyone")

	require.Len(t, f.detection.scanned, 1)
	assert.Equal(t, "hello everyone", f.detection.scanned[0].Content)
}

func TestBotMessagesAreIgnored(t *testing.T) {
	f := newFixture()
	f.send(t, f.groupChannel, f.guild, f.chat.BotUser(), "I am the bot")

	assert.Empty(t, f.detection.scanned)
}

func TestUnknownChannelIgnored(t *testing.T) {
	f := newFixture()
	f.send(t, "chan-other", f.guild, alice, "report")

	assert.Empty(t, f.detection.scanned)
	assert.Nil(t, f.chat.LastSent())
}

func TestDMHelp(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "help")

	require.NotNil(t, f.chat.LastSent())
	assert.Contains(t, f.chat.LastSent().Content, "`report` command")
}

func TestDMWithoutKeywordIgnored(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "hello bot")

	assert.Nil(t, f.chat.LastSent())
}

// runReport walks a full report flow for the given user against a seeded
// group-channel message.
func (f *fixture) runReport(t *testing.T, reporter transport.User, offending *transport.Message) {
	t.Helper()
	dm := "dm-" + reporter.ID
	f.send(t, dm, "", reporter, "report")
	link := fmt.Sprintf("https://chat.example/%s/%s/%s", f.guild, offending.ChannelID, offending.ID)
	f.send(t, dm, "", reporter, link)
	f.reactToLast(t, "", dm, reporter, "1⃣") // Harassment
	f.reactToLast(t, "", dm, reporter, "1⃣") // submit
}

func TestReportCompletionRaisesOneAlertAndOneIncrement(t *testing.T) {
	f := newFixture()
	offending := f.chat.Seed(&transport.Message{
		GuildID:   f.guild,
		ChannelID: f.groupChannel,
		Author:    transport.User{ID: "mallory", Name: "mallory"},
		Content:   "something cruel",
	})

	f.runReport(t, alice, offending)

	require.Len(t, f.alerts.reports, 1)
	assert.Equal(t, "Harassment", f.alerts.reports[0].Category)
	assert.Equal(t, int64(1), f.flags.increments["mallory"])

	// session was reaped: a new report starts from the beginning
	f.send(t, "dm-alice", "", alice, "report")
	assert.Contains(t, f.chat.LastSent().Content, "copy paste the link")
}

func TestOneReportSessionPerActor(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "report")
	first := f.chat.LastSent()

	// a second "report" DM is routed into the live session as its next
	// input, not treated as a fresh start keyword
	f.send(t, "dm-alice", "", alice, "report")
	assert.Contains(t, f.chat.LastSent().Content, "couldn't read that link")
	assert.NotEqual(t, first.ID, f.chat.LastSent().ID)
}

func TestCancelledReportIsReaped(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "report")
	f.send(t, "dm-alice", "", alice, "cancel")

	assert.Empty(t, f.alerts.reports)
	assert.Empty(t, f.flags.increments)

	f.send(t, "dm-alice", "", alice, "report")
	assert.Contains(t, f.chat.LastSent().Content, "copy paste the link")
}

func TestKeywordSessionTakesPriorityOverReportInDM(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "keywords")
	assert.Contains(t, f.chat.LastSent().Content, "keyword editing process")

	// "report" while the keyword session is live feeds that session
	f.send(t, "dm-alice", "", alice, "report")
	assert.Empty(t, f.alerts.reports)
}

func TestKeywordEditLandsOnAuditStream(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "keywords")
	f.reactToLast(t, "", "dm-alice", alice, "2⃣")
	f.send(t, "dm-alice", "", alice, "slur1")

	require.Len(t, f.audit.published, 1)
	event := f.audit.published[0]
	assert.Equal(t, events.TypeKeywordListChanged, event.EventType())
	assert.Equal(t, "alice", event.Payload()["editor_id"])
	assert.Equal(t, "add", event.Payload()["action"])
	assert.Equal(t, "slur1", event.Payload()["keyword"])
}

func TestReactionToNonBotMessageIgnored(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "report")

	userMsg := f.chat.Seed(&transport.Message{
		ChannelID: "dm-alice",
		Author:    alice,
		Content:   "my own message",
	})
	before := len(f.chat.Sent)
	require.NoError(t, f.d.HandleReaction(context.Background(), &dto.ReactionEvent{
		MessageID: userMsg.ID,
		ChannelID: "dm-alice",
		UserID:    alice.ID,
		Emoji:     "1⃣",
	}))
	assert.Len(t, f.chat.Sent, before)
}

func TestReactionToUnreadableTargetAbortsSilently(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "report")
	prompt := f.chat.LastSent()
	f.chat.Forbid(prompt.ID)

	before := len(f.chat.Sent)
	require.NoError(t, f.d.HandleReaction(context.Background(), &dto.ReactionEvent{
		MessageID: prompt.ID,
		ChannelID: "dm-alice",
		UserID:    alice.ID,
		Emoji:     "1⃣",
	}))
	assert.Len(t, f.chat.Sent, before)
}

func TestBotOwnReactionIgnored(t *testing.T) {
	f := newFixture()
	f.send(t, "dm-alice", "", alice, "report")
	prompt := f.chat.LastSent()

	before := len(f.chat.Sent)
	require.NoError(t, f.d.HandleReaction(context.Background(), &dto.ReactionEvent{
		MessageID: prompt.ID,
		ChannelID: "dm-alice",
		UserID:    f.chat.BotUser().ID,
		Emoji:     "1⃣",
	}))
	assert.Len(t, f.chat.Sent, before)
}

func TestModReviewEscalationHandsOff(t *testing.T) {
	f := newFixture()
	mod := transport.User{ID: "mod-1", Name: "sam"}
	flagged := f.chat.Seed(&transport.Message{
		GuildID:   f.guild,
		ChannelID: f.groupChannel,
		Author:    transport.User{ID: "mallory", Name: "mallory"},
		Content:   "something cruel",
	})

	f.send(t, f.modChannel, f.guild, mod, "report")
	link := fmt.Sprintf("https://chat.example/%s/%s/%s", f.guild, flagged.ChannelID, flagged.ID)
	f.send(t, f.modChannel, f.guild, mod, link)
	f.reactToLast(t, f.guild, f.modChannel, mod, "3⃣") // escalate

	require.Len(t, f.alerts.escalations, 1)
	assert.Equal(t, flagged, f.alerts.escalations[0].Reviewed)

	// the moderator's session is gone
	f.send(t, f.modChannel, f.guild, mod, "report")
	assert.Contains(t, f.chat.LastSent().Content, "Starting a moderator review")
}

func TestCommitteeVerdictAnnounced(t *testing.T) {
	f := newFixture()
	reviewer := transport.User{ID: "rev-1", Name: "quinn"}

	f.send(t, f.committeeChannel, f.guild, reviewer, "report")
	f.reactToLast(t, f.guild, f.committeeChannel, reviewer, "4⃣") // Ban User

	require.Len(t, f.alerts.verdicts, 1)
	assert.Equal(t, "Ban User", f.alerts.verdicts[0].Verdict)
}

func TestModChannelChatterIgnoredWithoutSession(t *testing.T) {
	f := newFixture()
	mod := transport.User{ID: "mod-1", Name: "sam"}
	f.send(t, f.modChannel, f.guild, mod, "what a day")

	assert.Nil(t, f.chat.LastSent())
	assert.Empty(t, f.detection.scanned)
}
