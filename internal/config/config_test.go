package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGroupNum(t *testing.T) {
	tests := []struct {
		name    string
		botName string
		want    string
		wantErr bool
	}{
		{"canonical", "Group 7 Bot", "7", false},
		{"lowercase", "group 12 bot", "12", false},
		{"mixed case", "Group 3 bot", "3", false},
		{"embedded", "The Group 42 Bot Account", "42", false},
		{"no number", "Group Bot", "", true},
		{"empty", "", "", true},
		{"wrong shape", "Moderator Bot 5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Bot: BotConfig{DisplayName: tt.botName}}
			err := cfg.ResolveGroupNum()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Bot.GroupNum)
		})
	}
}

func TestChannelNames(t *testing.T) {
	cfg := &Config{Bot: BotConfig{DisplayName: "Group 7 Bot"}}
	require.NoError(t, cfg.ResolveGroupNum())

	assert.Equal(t, "group-7", cfg.GroupChannel())
	assert.Equal(t, "group-7-mod", cfg.ModChannel())
	assert.Equal(t, "group-7-3-person-review-team", cfg.CommitteeChannel())
}
