package job

// Cooldown action wording, rendered as "you can <action> again in ..."
const CooldownActionFmt = "change your %s job"

// Error message constants
const (
	ErrMsgFailedToLoadRecords   = "failed to load job records"
	ErrMsgFailedToJoinJob       = "failed to join job"
	ErrMsgFailedToLeaveJob      = "failed to leave job"
	ErrMsgFailedToAwardXP       = "failed to award experience"
	ErrMsgNegativeExperienceFmt = "experience amount must not be negative, got %d"
)

// Log message constants
const (
	LogMsgJobJoined          = "Player joined job"
	LogMsgJobLeft            = "Player left job"
	LogMsgLeaveWithoutRecord = "Leave ignored, player never joined job"
	LogMsgAwardWithoutRecord = "Experience ignored, player never joined job"
	LogMsgLevelUp            = "Player leveled up"
	LogMsgMaxLevelReached    = "Player reached max level"
	LogMsgPlayerDisconnected = "Released job state for disconnected player"
)
