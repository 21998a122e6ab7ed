package events

import "time"

// Event type codes for the moderation audit stream.
const (
	TypeAlertRaised        = "ALERT_RAISED"
	TypeReportCompleted    = "REPORT_COMPLETED"
	TypeReportEscalated    = "REPORT_ESCALATED"
	TypeCommitteeResolved  = "COMMITTEE_RESOLVED"
	TypeKeywordListChanged = "KEYWORD_LIST_CHANGED"
)

// NewAlertRaised records an alert landing in the mod channel, whether it came
// from a completed user report or the automatic detection path.
func NewAlertRaised(flaggedUserID, subcategory, priority string, score float64) Event {
	return BaseEvent{
		Type: TypeAlertRaised,
		Data: map[string]interface{}{
			"flagged_user_id": flaggedUserID,
			"subcategory":     subcategory,
			"priority":        priority,
			"score":           score,
		},
		OccurredAt: time.Now(),
	}
}

// NewReportCompleted records a user report reaching its terminal COMPLETE state.
func NewReportCompleted(reporterID, flaggedUserID, category string) Event {
	return BaseEvent{
		Type: TypeReportCompleted,
		Data: map[string]interface{}{
			"reporter_id":     reporterID,
			"flagged_user_id": flaggedUserID,
			"category":        category,
		},
		OccurredAt: time.Now(),
	}
}

// NewReportEscalated records a moderator forwarding a case to the committee.
func NewReportEscalated(moderatorID, flaggedUserID string) Event {
	return BaseEvent{
		Type: TypeReportEscalated,
		Data: map[string]interface{}{
			"moderator_id":    moderatorID,
			"flagged_user_id": flaggedUserID,
		},
		OccurredAt: time.Now(),
	}
}

// NewCommitteeResolved records the committee's final verdict on a case.
func NewCommitteeResolved(reviewerID, verdict string) Event {
	return BaseEvent{
		Type: TypeCommitteeResolved,
		Data: map[string]interface{}{
			"reviewer_id": reviewerID,
			"verdict":     verdict,
		},
		OccurredAt: time.Now(),
	}
}

// NewKeywordListChanged records a moderator editing the shared block-list.
func NewKeywordListChanged(editorID, action, keyword string) Event {
	return BaseEvent{
		Type: TypeKeywordListChanged,
		Data: map[string]interface{}{
			"editor_id": editorID,
			"action":    action,
			"keyword":   keyword,
		},
		OccurredAt: time.Now(),
	}
}
