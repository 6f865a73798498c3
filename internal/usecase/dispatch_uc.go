// File: internal/usecase/dispatch_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"campus-chat/internal/domain/model"
	"campus-chat/internal/domain/ports/adapter"
	"campus-chat/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CommandDispatcher = (*dispatchUC)(nil)

// CommandDispatcher classifies one inbound submission into exactly one
// outcome and executes it. Classification is first-matching-prefix over a
// fixed rule order; a command word with a missing or blank argument degrades
// to the next rule instead of erroring, so every submission produces some
// response.
type CommandDispatcher interface {
	// Dispatch handles one inbound message from a logged-in session. The
	// returned id is the primary broadcast message's id ("" when the outcome
	// was a private card error). Errors are reserved for unexpected faults.
	Dispatch(ctx context.Context, sess *model.Session, text string, timestamp int64) (string, error)
}

// commandKind is the tagged variant produced by classification.
type commandKind int

const (
	cmdText commandKind = iota
	cmdNews
	cmdWeather
	cmdMovie
	cmdMusic
	cmdAIChat
	cmdMention
)

type command struct {
	kind commandKind
	arg  string
}

// matcher reports whether its rule claims text; returning false hands the
// text to the next rule in order.
type matcher func(text string) (command, bool)

// rules in fixed priority order. The order is a policy choice clients rely
// on; do not reorder.
var rules = []matcher{
	matchNews,
	matchWeather,
	matchMovie,
	matchMusic,
	matchAIChat,
	matchMention,
}

func classify(text string) command {
	for _, m := range rules {
		if cmd, ok := m(text); ok {
			return cmd
		}
	}
	return command{kind: cmdText}
}

func matchNews(text string) (command, bool) {
	if strings.HasPrefix(text, "@每天60s") || strings.HasPrefix(text, "@每天60秒") {
		return command{kind: cmdNews}, true
	}
	return command{}, false
}

func matchWeather(text string) (command, bool) {
	if !strings.HasPrefix(text, "@天气") {
		return command{}, false
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return command{}, false
	}
	city := strings.TrimSpace(parts[1])
	if city == "" {
		// whitespace-only city degrades to plain text, matching the
		// long-standing client expectation
		return command{}, false
	}
	return command{kind: cmdWeather, arg: city}, true
}

func matchMovie(text string) (command, bool) {
	if !strings.HasPrefix(text, "@电影") {
		return command{}, false
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return command{}, false
	}
	return command{kind: cmdMovie, arg: parts[1]}, true
}

func matchMusic(text string) (command, bool) {
	if !strings.HasPrefix(text, "@听音乐") {
		return command{}, false
	}
	keyword := strings.Join(strings.Fields(strings.TrimPrefix(text, "@听音乐")), " ")
	if keyword == "" {
		return command{}, false
	}
	return command{kind: cmdMusic, arg: keyword}, true
}

func matchAIChat(text string) (command, bool) {
	for _, prefix := range []string{"@川农", "@川小农"} {
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		parts := strings.SplitN(text, " ", 2)
		if len(parts) < 2 {
			return command{}, false
		}
		return command{kind: cmdAIChat, arg: parts[1]}, true
	}
	return command{}, false
}

func matchMention(text string) (command, bool) {
	if strings.HasPrefix(text, "@") {
		return command{kind: cmdMention}, true
	}
	return command{}, false
}

// Card event payloads.

type weatherCard struct {
	Username  string                 `json:"username"`
	Timestamp int64                  `json:"timestamp"`
	Weather   *adapter.WeatherReport `json:"weather"`
}

type newsCard struct {
	Username  string              `json:"username"`
	Timestamp int64               `json:"timestamp"`
	News      *adapter.NewsDigest `json:"news"`
}

type musicCard struct {
	Username  string              `json:"username"`
	Timestamp int64               `json:"timestamp"`
	Music     *adapter.MusicTrack `json:"music"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type dispatchUC struct {
	rooms     RoomBroadcaster
	responder StreamingResponder
	weather   adapter.WeatherAdapter
	news      adapter.NewsAdapter
	music     adapter.MusicAdapter
	log       *zerolog.Logger
}

// NewCommandDispatcher wires the rule handlers. A nil lookup adapter means
// the feature is disabled; its commands then surface the same private error
// a failed lookup would.
func NewCommandDispatcher(
	rooms RoomBroadcaster,
	responder StreamingResponder,
	weather adapter.WeatherAdapter,
	news adapter.NewsAdapter,
	music adapter.MusicAdapter,
	logger *zerolog.Logger,
) *dispatchUC {
	return &dispatchUC{
		rooms:     rooms,
		responder: responder,
		weather:   weather,
		news:      news,
		music:     music,
		log:       logger,
	}
}

func (d *dispatchUC) Dispatch(ctx context.Context, sess *model.Session, text string, timestamp int64) (string, error) {
	cmd := classify(text)

	switch cmd.kind {
	case cmdNews:
		metrics.IncMessage(string(model.KindCommandCard))
		return d.handleNews(ctx, sess, text, timestamp)
	case cmdWeather:
		metrics.IncMessage(string(model.KindCommandCard))
		return d.handleWeather(ctx, sess, text, cmd.arg, timestamp)
	case cmdMusic:
		metrics.IncMessage(string(model.KindCommandCard))
		return d.handleMusic(ctx, sess, text, cmd.arg, timestamp)
	case cmdAIChat:
		metrics.IncMessage(string(model.KindAIChat))
		return d.handleAIChat(sess, text, cmd.arg, timestamp)
	case cmdMovie:
		metrics.IncMessage(string(model.KindMovie))
		return d.broadcastAndRecord(model.NewMessage(sess.Username, text, timestamp, model.KindMovie, model.MoviePayload{URL: cmd.arg})), nil
	case cmdMention:
		metrics.IncMessage(string(model.KindMention))
		return d.broadcastAndRecord(model.NewMessage(sess.Username, text, timestamp, model.KindMention, nil)), nil
	default:
		metrics.IncMessage(string(model.KindText))
		return d.broadcastAndRecord(model.NewMessage(sess.Username, text, timestamp, model.KindText, nil)), nil
	}
}

// broadcastAndRecord is the default outcome: room-wide new_message plus a
// history append, ordered as one step relative to other durable messages.
func (d *dispatchUC) broadcastAndRecord(msg model.Message) string {
	d.rooms.Publish(model.EventNewMessage, msg)
	return msg.ID
}

// recordTrigger appends the plain-text history entry for a successful card
// command, so late joiners see what was asked.
func (d *dispatchUC) recordTrigger(username, text string, timestamp int64) model.Message {
	msg := model.NewMessage(username, text, timestamp, model.KindText, nil)
	d.rooms.Record(msg)
	return msg
}

func (d *dispatchUC) handleNews(ctx context.Context, sess *model.Session, text string, timestamp int64) (string, error) {
	if d.news == nil {
		d.notify(sess, model.EventNewsError, "新闻功能未启用")
		return "", nil
	}
	start := time.Now()
	digest, err := d.news.Daily(ctx)
	metrics.ObserveLookup("news", d.news.Name(), int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		d.log.Warn().Err(err).Str("username", sess.Username).Msg("news lookup failed")
		d.notify(sess, model.EventNewsError, "获取新闻失败，请稍后再试")
		return "", nil
	}
	d.rooms.Broadcast(model.EventNewsCard, newsCard{Username: sess.Username, Timestamp: timestamp, News: digest}, nil)
	return d.recordTrigger(sess.Username, text, timestamp).ID, nil
}

func (d *dispatchUC) handleWeather(ctx context.Context, sess *model.Session, text, city string, timestamp int64) (string, error) {
	if d.weather == nil {
		d.notify(sess, model.EventWeatherError, "天气功能未启用")
		return "", nil
	}
	start := time.Now()
	report, err := d.weather.Current(ctx, city)
	metrics.ObserveLookup("weather", d.weather.Name(), int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		d.log.Warn().Err(err).Str("city", city).Str("username", sess.Username).Msg("weather lookup failed")
		d.notify(sess, model.EventWeatherError, "获取天气信息失败，请检查城市名称")
		return "", nil
	}
	d.rooms.Broadcast(model.EventWeatherCard, weatherCard{Username: sess.Username, Timestamp: timestamp, Weather: report}, nil)
	return d.recordTrigger(sess.Username, text, timestamp).ID, nil
}

func (d *dispatchUC) handleMusic(ctx context.Context, sess *model.Session, text, keyword string, timestamp int64) (string, error) {
	if d.music == nil {
		d.notify(sess, model.EventMusicError, "音乐功能未启用")
		return "", nil
	}
	start := time.Now()
	track, err := d.music.Search(ctx, keyword)
	metrics.ObserveLookup("music", d.music.Name(), int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		d.log.Warn().Err(err).Str("keyword", keyword).Str("username", sess.Username).Msg("music lookup failed")
		d.notify(sess, model.EventMusicError, "未找到相关歌曲")
		return "", nil
	}
	d.rooms.Broadcast(model.EventMusicCard, musicCard{Username: sess.Username, Timestamp: timestamp, Music: track}, nil)
	return d.recordTrigger(sess.Username, text, timestamp).ID, nil
}

// handleAIChat broadcasts the "thinking" placeholder synchronously, then
// hands the query to the responder. The placeholder must reach every client
// before the first chunk. Nothing is appended to history here; only the
// completed answer is durable.
func (d *dispatchUC) handleAIChat(sess *model.Session, text, query string, timestamp int64) (string, error) {
	placeholder := model.NewMessage(sess.Username, text, timestamp, model.KindAIChat, model.AIChatPayload{Query: query})
	d.rooms.Broadcast(model.EventNewMessage, placeholder, nil)

	if err := d.responder.Respond(query, timestamp); err != nil {
		d.log.Error().Err(err).Msg("could not schedule streamed response")
		d.notify(sess, model.EventError, "AI 助手繁忙，请稍后再试")
	}
	return placeholder.ID, nil
}

// notify sends a private event to the requesting connection only.
func (d *dispatchUC) notify(sess *model.Session, event, message string) {
	if err := sess.Conn.Send(event, errorEvent{Message: message}); err != nil {
		d.log.Debug().Err(err).Str("event", event).Msg("private notice dropped")
	}
}
