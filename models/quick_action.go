package models

// Canned messages for one-tap quick actions, one per report type. Quick
// actions bypass free-text entry and submit immediately.
var quickActionMessages = map[ReportType]string{
	ReportTypeCrash:      "The app crashed unexpectedly",
	ReportTypeSlow:       "The app is running very slowly",
	ReportTypeBug:        "Something isn't working correctly",
	ReportTypeSuggestion: "I have a suggestion to improve the app",
}

// QuickActionMessage returns the canned message for a report type, and
// whether the type has a quick action at all.
func QuickActionMessage(t ReportType) (string, bool) {
	msg, ok := quickActionMessages[t]
	return msg, ok
}
