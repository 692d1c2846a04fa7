package discord

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	logx "eventbot/pkg/logx"
)

type Config struct {
	Token   string
	GuildID string

	// Presence is the activity shown while connected (empty leaves it unset).
	Presence string
}

// Adapter owns the gateway session and implements EventSource against the
// configured guild. All remote access of the bot funnels through here.
type Adapter struct {
	cfg Config
	log logx.Logger

	session *discordgo.Session

	runMu   sync.Mutex
	running bool

	readyMu  sync.Mutex
	onReady  []func()
	wasReady bool

	// chanMu guards a small channel-name cache so event listings don't
	// hit the REST API once per event.
	chanMu    sync.Mutex
	chanNames map[string]string
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("discord token is empty")
	}
	if strings.TrimSpace(cfg.GuildID) == "" {
		return nil, errors.New("discord guild_id is empty")
	}
	s, err := discordgo.New("Bot " + strings.TrimSpace(cfg.Token))
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildScheduledEvents
	if log.IsZero() {
		log = logx.Nop()
	}
	a := &Adapter{cfg: cfg, log: log, session: s, chanNames: map[string]string{}}

	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.log.Info("gateway ready",
			logx.String("user", r.User.Username),
			logx.Int("guilds", len(r.Guilds)))
		if p := strings.TrimSpace(a.cfg.Presence); p != "" {
			if err := a.session.UpdateGameStatus(0, p); err != nil {
				a.log.Warn("presence update failed", logx.Err(err))
			}
		}
		a.fireReady()
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		a.log.Warn("gateway disconnected; discordgo will reconnect")
	})

	return a, nil
}

// Session exposes the underlying session for the interaction layer.
// Event data access should go through the EventSource methods instead.
func (a *Adapter) Session() *discordgo.Session { return a.session }

func (a *Adapter) GuildID() string { return a.cfg.GuildID }

// OnReady registers fn to run once the gateway session is ready.
// If the session is already ready, fn runs immediately.
func (a *Adapter) OnReady(fn func()) {
	if fn == nil {
		return
	}
	a.readyMu.Lock()
	was := a.wasReady
	if !was {
		a.onReady = append(a.onReady, fn)
	}
	a.readyMu.Unlock()
	if was {
		fn()
	}
}

func (a *Adapter) fireReady() {
	a.readyMu.Lock()
	fns := a.onReady
	a.onReady = nil
	a.wasReady = true
	a.readyMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (a *Adapter) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.running {
		return nil
	}
	if err := a.session.Open(); err != nil {
		return classifyErr("gateway open", err)
	}
	a.running = true
	_ = ctx
	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return nil
	}
	a.running = false
	_ = ctx
	return a.session.Close()
}

// ---- EventSource ----

func (a *Adapter) ListScheduledEvents(ctx context.Context) ([]ScheduledEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := a.session.GuildScheduledEvents(a.cfg.GuildID, false)
	if err != nil {
		return nil, classifyErr("list scheduled events", err)
	}
	out := make([]ScheduledEvent, 0, len(raw))
	for _, ev := range raw {
		if ev == nil {
			continue
		}
		out = append(out, a.convertEvent(ev))
	}
	return out, nil
}

func (a *Adapter) GetScheduledEvent(ctx context.Context, eventID string) (*ScheduledEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := a.session.GuildScheduledEvent(a.cfg.GuildID, eventID, false)
	if err != nil {
		return nil, classifyErr("get scheduled event", err)
	}
	ev := a.convertEvent(raw)
	return &ev, nil
}

func (a *Adapter) StartEvent(ctx context.Context, eventID string) error {
	return a.setEventStatus(ctx, "start event", eventID, discordgo.GuildScheduledEventStatusActive)
}

func (a *Adapter) EndEvent(ctx context.Context, eventID string) error {
	return a.setEventStatus(ctx, "end event", eventID, discordgo.GuildScheduledEventStatusCompleted)
}

func (a *Adapter) setEventStatus(ctx context.Context, op, eventID string, status discordgo.GuildScheduledEventStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.session.GuildScheduledEventEdit(a.cfg.GuildID, eventID,
		&discordgo.GuildScheduledEventParams{Status: status})
	return classifyErr(op, err)
}

// ---- logx.ChannelSender ----

func (a *Adapter) SendChannelMessage(ctx context.Context, channelID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(channelID) == "" || strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := a.session.ChannelMessageSend(channelID, text)
	return classifyErr("send channel message", err)
}

// ---- conversion ----

func (a *Adapter) convertEvent(ev *discordgo.GuildScheduledEvent) ScheduledEvent {
	out := ScheduledEvent{
		ID:         ev.ID,
		Name:       ev.Name,
		Status:     convertStatus(ev.Status),
		EntityType: convertEntityType(ev.EntityType),
		StartTime:  ev.ScheduledStartTime.UTC(),
	}
	if ev.ChannelID != "" {
		out.Channel = &Channel{ID: ev.ChannelID, Name: a.channelName(ev.ChannelID)}
	}
	return out
}

func convertStatus(s discordgo.GuildScheduledEventStatus) EventStatus {
	switch s {
	case discordgo.GuildScheduledEventStatusScheduled:
		return StatusScheduled
	case discordgo.GuildScheduledEventStatusActive:
		return StatusActive
	case discordgo.GuildScheduledEventStatusCompleted:
		return StatusCompleted
	case discordgo.GuildScheduledEventStatusCanceled:
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

func convertEntityType(t discordgo.GuildScheduledEventEntityType) EntityType {
	switch t {
	case discordgo.GuildScheduledEventEntityTypeStageInstance:
		return EntityStage
	case discordgo.GuildScheduledEventEntityTypeVoice:
		return EntityVoice
	case discordgo.GuildScheduledEventEntityTypeExternal:
		return EntityExternal
	default:
		return EntityUnknown
	}
}

func (a *Adapter) channelName(channelID string) string {
	a.chanMu.Lock()
	if name, ok := a.chanNames[channelID]; ok {
		a.chanMu.Unlock()
		return name
	}
	a.chanMu.Unlock()

	name := ""
	if ch, err := a.session.State.Channel(channelID); err == nil && ch != nil {
		name = ch.Name
	} else if ch, err := a.session.Channel(channelID); err == nil && ch != nil {
		name = ch.Name
	}
	if name == "" {
		return ""
	}

	a.chanMu.Lock()
	// Names drift rarely; a flat cap keeps the cache from growing unbounded.
	if len(a.chanNames) > 512 {
		a.chanNames = map[string]string{}
	}
	a.chanNames[channelID] = name
	a.chanMu.Unlock()
	return name
}

// IsSnowflake reports whether s looks like a Discord snowflake id.
// Used to validate user-supplied event ids before hitting the API.
func IsSnowflake(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 15 || len(s) > 22 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatTimestamp renders t as Discord timestamp markup (<t:unix:style>).
func FormatTimestamp(t time.Time, style byte) string {
	return "<t:" + strconv.FormatInt(t.Unix(), 10) + ":" + string(style) + ">"
}
