package constant

// DeliveryChannel defines where a fired watering reminder is delivered.
type DeliveryChannel int

const (
	// ChannelLog writes fired reminders to the application log only.
	ChannelLog DeliveryChannel = iota // 0: no push target configured
	// ChannelLine pushes fired reminders to a LINE user or group.
	ChannelLine // 1: LINE Messaging API push
)

func (c DeliveryChannel) String() string {
	switch c {
	case ChannelLine:
		return "line"
	default:
		return "log"
	}
}
