package constant

// DM commands.
const (
	StartKeyword        = "report"
	CancelKeyword       = "cancel"
	HelpKeyword         = "help"
	KeywordStartKeyword = "keywords"
)

// Reaction alphabet: four numbered emoji per menu, nothing else is meaningful.
const (
	EmojiOne   = "1⃣"
	EmojiTwo   = "2⃣"
	EmojiThree = "3⃣"
	EmojiFour  = "4⃣"
)

// MenuEmoji is the fixed ordered alphabet for multiple-choice prompts.
var MenuEmoji = []string{EmojiOne, EmojiTwo, EmojiThree, EmojiFour}

// Store layout.
const (
	CollectionConfig   = "config"
	CollectionUsers    = "users"
	DocumentKeywords   = "keywords"
	FieldKeywordsList  = "keywords_list"
	FieldFlagCounts    = "flag_counts"
)

// Abuse categories offered in the user report flow.
const (
	CategoryHarassment = "Harassment"
	CategoryOffensive  = "Offensive Content"
	CategoryViolence   = "Urgent Violence"
	CategoryOther      = "Others/I don't like this"
)

// Labels and priorities for alerts.
const (
	LabelManualKeyword = "Manual Keyword"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Embed colors by priority (platform color ints, blue/gold/red).
var PriorityColors = map[string]int{
	PriorityLow:    0x3498db,
	PriorityMedium: 0xf1c40f,
	PriorityHigh:   0xe74c3c,
}

// Committee verdict labels.
const (
	VerdictNoAction = "No Action"
	VerdictWarn     = "Warn User"
	VerdictSuspend  = "Suspend User"
	VerdictBan      = "Ban User"
)
