// Package telegram adapts the Telegram Bot API to the gateway surface the bot
// core needs: a readiness gate, message delivery, channel resolution and
// command dispatch.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"github.com/fuelwatch/gaspricebot/internal/bot"
)

// Options configures the gateway.
type Options struct {
	// Token is the Telegram bot credential.
	Token string
	// PollTimeout is the long-poll timeout for updates.
	PollTimeout time.Duration
	// Rich enables HTML parse mode on outgoing messages.
	Rich bool
}

// Gateway wraps the Telegram connection shared by the scheduled and on-demand
// paths. It is created once at startup and released once at shutdown.
type Gateway struct {
	bot    *tele.Bot
	rich   bool
	logger zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}

	runMu   sync.Mutex
	running bool
}

// New authenticates the token against the Telegram API and returns a gateway
// that is not yet polling. A bad token fails here, before any scheduling
// starts.
func New(opts Options, logger zerolog.Logger) (*Gateway, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}

	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  opts.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	return &Gateway{
		bot:    b,
		rich:   opts.Rich,
		logger: logger.With().Str("component", "gateway").Logger(),
		ready:  make(chan struct{}),
	}, nil
}

// Ready returns the readiness gate. It is closed once the gateway is
// connected and polling for updates.
func (g *Gateway) Ready() <-chan struct{} {
	return g.ready
}

// Username returns the authenticated bot account name.
func (g *Gateway) Username() string {
	if g.bot.Me == nil {
		return ""
	}
	return g.bot.Me.Username
}

// Connected reports whether the gateway is currently polling.
func (g *Gateway) Connected() bool {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	return g.running
}

// HandleCommand registers a command endpoint (e.g. "/now") and binds replies
// to the invoking conversation.
func (g *Gateway) HandleCommand(endpoint string, fn func(inv bot.Invocation) error) {
	g.bot.Handle(endpoint, func(c tele.Context) error {
		inv := bot.Invocation{
			ChatID:   c.Chat().ID,
			Username: senderName(c),
			Reply: func(text string) error {
				return c.Send(text, g.sendOptions())
			},
		}
		return fn(inv)
	})
}

// Start begins long polling and opens the readiness gate. It blocks until
// Stop is called.
func (g *Gateway) Start() {
	g.runMu.Lock()
	if g.running {
		g.runMu.Unlock()
		return
	}
	g.running = true
	g.runMu.Unlock()

	g.logger.Info().Str("username", g.Username()).Msg("polling started")
	g.readyOnce.Do(func() { close(g.ready) })

	g.bot.Start()
}

// Stop halts polling. An in-flight handler send is allowed to finish; the
// wait is bounded by ctx.
func (g *Gateway) Stop(ctx context.Context) error {
	g.runMu.Lock()
	wasRunning := g.running
	g.running = false
	g.runMu.Unlock()

	if !wasRunning {
		return nil
	}

	done := make(chan struct{})
	go func() {
		g.bot.Stop()
		close(done)
	}()

	select {
	case <-done:
		g.logger.Info().Msg("polling stopped")
		return nil
	case <-ctx.Done():
		g.logger.Warn().Err(ctx.Err()).Msg("gateway stop cancelled")
		return ctx.Err()
	}
}

// ResolveChat re-queries the chat by ID and returns a display name. Called on
// every scheduled cycle, never cached, so a chat becoming unavailable is
// noticed on the next fire.
func (g *Gateway) ResolveChat(chatID int64) (string, error) {
	chat, err := g.bot.ChatByID(chatID)
	if err != nil {
		return "", fmt.Errorf("looking up chat %d: %w", chatID, err)
	}
	return chatName(chat), nil
}

// SendTo delivers text to a chat.
func (g *Gateway) SendTo(chatID int64, text string) error {
	_, err := g.bot.Send(&tele.Chat{ID: chatID}, text, g.sendOptions())
	if err != nil {
		return fmt.Errorf("sending to chat %d: %w", chatID, err)
	}
	return nil
}

func (g *Gateway) sendOptions() *tele.SendOptions {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	if g.rich {
		opts.ParseMode = tele.ModeHTML
	}
	return opts
}

func chatName(chat *tele.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	if chat.Username != "" {
		return chat.Username
	}
	return fmt.Sprintf("chat %d", chat.ID)
}

func senderName(c tele.Context) string {
	sender := c.Sender()
	if sender == nil {
		return "unknown"
	}
	if sender.Username != "" {
		return sender.Username
	}
	return strings.TrimSpace(sender.FirstName + " " + sender.LastName)
}
