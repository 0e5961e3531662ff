package models

// NotificationType categorizes portal notifications for client display.
type NotificationType string

const (
	NotificationAppointment  NotificationType = "appointment"
	NotificationReschedule   NotificationType = "reschedule"
	NotificationCancellation NotificationType = "cancellation"
	NotificationPrescription NotificationType = "prescription"
	NotificationPayment      NotificationType = "payment"
)

// Notification is written as a side effect of lifecycle transitions and read
// by the portal's notification bell. Delivery/display is a client concern.
type Notification struct {
	BaseModel
	UserID  string           `gorm:"size:36;index" json:"userId"`
	Type    NotificationType `gorm:"size:30" json:"type"`
	Title   string           `gorm:"size:255" json:"title"`
	Message string           `gorm:"type:text" json:"message"`
	IsRead  bool             `gorm:"default:false;index" json:"isRead"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
