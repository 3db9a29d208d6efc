package notifications

// InquiryTopic тип обращения с сайта
type InquiryTopic string

const (
	TopicContact InquiryTopic = "contact"
	TopicEvent   InquiryTopic = "event"
)

// Inquiry заявка с контактной формы или формы мероприятия
type Inquiry struct {
	Topic     InquiryTopic
	Name      string
	Email     string
	Phone     string
	Message   string
	EventDate string
	GroupSize int
}

type bookingView struct {
	ID          int64
	Name        string
	Date        string
	StartTime   string
	EndTime     string
	SessionType string
	PartySize   int
	People      string
	Total       string
	IsMember    bool
}
