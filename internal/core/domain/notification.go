package domain

// NotificationTemplate identifies a message template rendered by the
// external notification pipeline. Rendering is out of scope here.
type NotificationTemplate string

const (
	UserGotFined     NotificationTemplate = "userGotFined"
	UserDebtNotify   NotificationTemplate = "userDebtNotification"
	UserWillGetFined NotificationTemplate = "userWillGetFined"
)

// NotifiableUserTypes lists the user types that receive debt notifications
// by default. Overridable through configuration.
var NotifiableUserTypes = []UserType{Member, Guest}
