package model

// Outbound event names produced by the room core. The websocket transport
// wraps each payload in a {event, data} frame under these names.
const (
	EventLoginFailed     = "login_failed"
	EventLoginSuccess    = "login_success"
	EventUserJoined      = "user_joined"
	EventUserLeft        = "user_left"
	EventHistoryMessages = "history_messages"
	EventNewMessage      = "new_message"
	EventMessageSent     = "message_sent"
	EventAIResponseChunk = "ai_response_chunk"
	EventNewsCard        = "news_card"
	EventNewsError       = "news_error"
	EventWeatherCard     = "weather_card"
	EventWeatherError    = "weather_error"
	EventMusicCard       = "music_card"
	EventMusicError      = "music_error"
	EventError           = "error"
)
