package main

import (
	"context"
	"fmt"
	"strings"

	"chat-moderation-be/internal/dispatcher"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/service"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/oracle"
	"chat-moderation-be/pkg/store/memstore"
	"chat-moderation-be/pkg/transport"
	"chat-moderation-be/pkg/transport/memory"

	"github.com/fatih/color"
)

// Scripted end-to-end walkthrough of the moderation flows against the
// in-process chat platform. No external services are touched: the store is
// in-memory and the oracles are canned.

var (
	userLine  = color.New(color.FgCyan)
	botLine   = color.New(color.FgGreen)
	alertLine = color.New(color.FgRed, color.Bold)
	scene     = color.New(color.FgYellow, color.Bold)
)

type cannedScorer struct{}

func (cannedScorer) Score(_ context.Context, text string) (*oracle.Scores, error) {
	if strings.Contains(strings.ToLower(text), "hate") {
		return &oracle.Scores{Toxicity: 0.97, SevereToxicity: 0.88, IdentityAttack: 0.95}, nil
	}
	return &oracle.Scores{Toxicity: 0.05, SevereToxicity: 0.01, IdentityAttack: 0.02}, nil
}

type cannedClassifier struct{}

func (cannedClassifier) Classify(_ context.Context, _ string) (string, error) {
	return "racism", nil
}

type sim struct {
	chat       *memory.Chat
	d          *dispatcher.Dispatcher
	modChannel string
	shown      int
}

func main() {
	bot := transport.User{ID: "bot", Name: "Group 7 Bot"}
	chat := memory.NewChat(bot)

	guild := "guild-1"
	groupChannel := chat.AddChannel(guild, "group-7")
	modChannel := chat.AddChannel(guild, "group-7-mod")
	committeeChannel := chat.AddChannel(guild, "group-7-3-person-review-team")

	docStore := memstore.New()
	sysLogger := logger.NewIsolatedLogger("logs/simulate.log")

	keywordService := service.NewKeywordService(docStore)
	flagService := service.NewFlagService(docStore)
	alertService := service.NewAlertService(chat, modChannel, committeeChannel, nil, nil, nil, nil, sysLogger)
	detectionService := service.NewDetectionService(keywordService, cannedScorer{}, cannedClassifier{}, alertService, sysLogger)

	d := dispatcher.NewDispatcher(
		chat,
		detectionService,
		alertService,
		keywordService,
		flagService,
		nil,
		session.DefaultReportPolicy(),
		groupChannel,
		modChannel,
		committeeChannel,
		sysLogger,
	)

	s := &sim{chat: chat, d: d, modChannel: modChannel}

	alice := transport.User{ID: "alice", Name: "alice"}
	mallory := transport.User{ID: "mallory", Name: "mallory"}
	mod := transport.User{ID: "mod-1", Name: "sam"}
	reviewer := transport.User{ID: "rev-1", Name: "quinn"}

	aliceDM := "dm-alice"
	modDM := "dm-sam"

	scene.Println("=== Scene 1: moderator maintains the keyword block-list ===")
	s.say(modDM, "", mod, "keywords")
	s.react(modDM, "", mod, "2⃣") // add
	s.say(modDM, "", mod, "slur1")
	s.react(modDM, "", mod, "4⃣") // done

	scene.Println("\n=== Scene 2: automatic detection in the group channel ===")
	s.say(groupChannel, guild, mallory, "good morning everyone")
	s.say(groupChannel, guild, mallory, "I hate people like you")
	s.say(groupChannel, guild, mallory, "you are a slur1")

	scene.Println("\n=== Scene 3: a user files a report ===")
	offending := s.seed(groupChannel, guild, mallory, "something cruel aimed at alice")
	s.say(aliceDM, "", alice, "report")
	s.say(aliceDM, "", alice, fmt.Sprintf("https://chat.example/%s/%s/%s", guild, groupChannel, offending.ID))
	s.react(aliceDM, "", alice, "1⃣") // Harassment
	s.react(aliceDM, "", alice, "1⃣") // submit

	scene.Println("\n=== Scene 4: moderator review and escalation ===")
	s.say(modChannel, guild, mod, "report")
	s.say(modChannel, guild, mod, fmt.Sprintf("https://chat.example/%s/%s/%s", guild, groupChannel, offending.ID))
	s.react(modChannel, guild, mod, "4⃣") // flag history
	s.react(modChannel, guild, mod, "3⃣") // escalate

	scene.Println("\n=== Scene 5: committee verdict ===")
	s.say(committeeChannel, guild, reviewer, "report")
	s.react(committeeChannel, guild, reviewer, "3⃣") // suspend
}

// say delivers a user message and prints the exchange.
func (s *sim) say(channelID, guildID string, author transport.User, content string) {
	userLine.Printf("%s: %s\n", author.Name, content)
	msg := s.chat.Seed(&transport.Message{
		GuildID:   guildID,
		ChannelID: channelID,
		Author:    author,
		Content:   content,
	})
	if err := s.d.HandleMessage(context.Background(), msg); err != nil {
		color.Red("dispatch error: %v", err)
	}
	s.flush()
}

// react reacts to the bot's most recent message.
func (s *sim) react(channelID, guildID string, author transport.User, emoji string) {
	target := s.chat.LastSent()
	if target == nil {
		color.Red("no bot message to react to")
		return
	}
	userLine.Printf("%s reacts %s\n", author.Name, emoji)
	err := s.d.HandleReaction(context.Background(), &dto.ReactionEvent{
		MessageID: target.ID,
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    author.ID,
		Emoji:     emoji,
	})
	if err != nil {
		color.Red("dispatch error: %v", err)
	}
	s.flush()
}

// seed plants a message without dispatching it.
func (s *sim) seed(channelID, guildID string, author transport.User, content string) *transport.Message {
	return s.chat.Seed(&transport.Message{
		GuildID:   guildID,
		ChannelID: channelID,
		Author:    author,
		Content:   content,
	})
}

// flush prints bot output produced since the last call.
func (s *sim) flush() {
	for ; s.shown < len(s.chat.Sent); s.shown++ {
		msg := s.chat.Sent[s.shown]
		if embed, ok := s.chat.Embeds[msg.ID]; ok {
			alertLine.Printf("[%s] %s\n", msg.ChannelID, embed.Title)
			for _, f := range embed.Fields {
				alertLine.Printf("    %s: %s\n", f.Name, f.Value)
			}
			continue
		}
		botLine.Printf("[%s] bot: %s\n", msg.ChannelID, msg.Content)
	}
}
