// Package bot provides the core update pipeline: scheduled price posts to the
// configured channel and on-demand command handling.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelwatch/gaspricebot/internal/prices"
	"github.com/fuelwatch/gaspricebot/internal/report"
)

// Gateway is the messaging capability the pipeline needs from the transport.
type Gateway interface {
	// ResolveChat re-queries the chat and returns a display name for logging.
	// It is called fresh on every scheduled cycle; unavailability at one
	// cycle never sticks.
	ResolveChat(chatID int64) (string, error)

	// SendTo delivers a rendered report to a chat.
	SendTo(chatID int64, text string) error
}

// PromRecorder receives cycle outcomes for metrics export. It is wired in by
// the lifecycle; a nil recorder disables export.
type PromRecorder interface {
	RecordCycle(origin, status string, duration float64)
	RecordPrice(fuelType string, price float64)
	RecordLastPost(timestamp float64)
}

// Invocation is one inbound command, bound to the conversation it arrived
// from. Replies go there and nowhere else.
type Invocation struct {
	ChatID   int64
	Username string
	Reply    func(text string) error
}

// Options configures the bot pipeline.
type Options struct {
	// Area is the locale prices are fetched for.
	Area string
	// ChannelID is the destination for scheduled posts. Zero disables
	// scheduled posting; on-demand requests still work.
	ChannelID int64
	// FetchTimeout bounds each provider fetch, independent of the tick period.
	FetchTimeout time.Duration
	// UpdatePeriod is the configured cadence, used for the report footer.
	UpdatePeriod time.Duration
	// Rich selects the HTML-styled report rendering.
	Rich bool
}

// Bot drives provider → formatter → gateway for both entry points. The
// provider is shared between them; fetches are stateless and the underlying
// HTTP client is safe for concurrent requests, so the two paths never
// serialize on each other.
type Bot struct {
	opts     Options
	provider prices.Provider
	gateway  Gateway
	logger   zerolog.Logger

	scheduled CycleMetrics
	onDemand  CycleMetrics
	prom      PromRecorder
}

// New creates the bot pipeline.
func New(opts Options, provider prices.Provider, gateway Gateway, logger zerolog.Logger) *Bot {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Bot{
		opts:     opts,
		provider: provider,
		gateway:  gateway,
		logger:   logger.With().Str("component", "bot").Logger(),
	}
}

// SetPromRecorder wires the Prometheus recorder into the pipeline.
func (b *Bot) SetPromRecorder(r PromRecorder) {
	b.prom = r
}

// PostUpdate runs one scheduled fetch→format→send cycle against the
// configured channel. The returned error is recorded by the scheduler but
// never fatal: the next cycle fires regardless.
func (b *Bot) PostUpdate(ctx context.Context) error {
	start := time.Now()
	err := b.postUpdate(ctx)
	b.scheduled.record(start, err)
	b.recordProm("scheduled", start, err)
	return err
}

func (b *Bot) postUpdate(ctx context.Context) error {
	if b.opts.ChannelID == 0 {
		b.logger.Warn().Msg("no channel configured, skipping scheduled post")
		return nil
	}

	chatName, err := b.gateway.ResolveChat(b.opts.ChannelID)
	if err != nil {
		// Recoverable skip: no send this cycle, resolution is retried on the
		// next fire.
		b.logger.Warn().
			Err(err).
			Int64("chat_id", b.opts.ChannelID).
			Msg("channel unavailable, skipping scheduled post")
		return fmt.Errorf("resolving channel %d: %w", b.opts.ChannelID, err)
	}

	quote, err := b.fetch(ctx)
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("area", b.opts.Area).
			Msg("scheduled price fetch failed")

		// Subscribers still see that the update ran: post the fixed
		// unavailable notice, then report the fetch failure.
		if sendErr := b.gateway.SendTo(b.opts.ChannelID, report.UnavailableText); sendErr != nil {
			b.logger.Error().Err(sendErr).Msg("failed to post unavailable notice")
		}
		return fmt.Errorf("fetching prices for %s: %w", b.opts.Area, err)
	}

	if err := b.gateway.SendTo(b.opts.ChannelID, b.render(quote)); err != nil {
		return fmt.Errorf("sending update to %q: %w", chatName, err)
	}

	b.logger.Info().
		Str("chat", chatName).
		Str("area", b.opts.Area).
		Int("count", len(quote.Prices)).
		Msg("posted gas prices")

	if b.prom != nil {
		for fuel, price := range quote.Prices {
			b.prom.RecordPrice(string(fuel), price)
		}
		b.prom.RecordLastPost(float64(time.Now().Unix()))
	}

	return nil
}

// HandleNow services an on-demand price request. The reply goes only to the
// invoking conversation, never to the configured channel, and failures are
// always reported to the requester.
func (b *Bot) HandleNow(ctx context.Context, inv Invocation) error {
	start := time.Now()

	b.logger.Info().
		Str("username", inv.Username).
		Int64("chat_id", inv.ChatID).
		Msg("on-demand price request")

	quote, err := b.fetch(ctx)
	if err != nil {
		b.onDemand.record(start, err)
		b.recordProm("on_demand", start, err)
		b.logger.Error().
			Err(err).
			Str("area", b.opts.Area).
			Int64("chat_id", inv.ChatID).
			Msg("on-demand price fetch failed")
		if replyErr := inv.Reply(report.ApologyText); replyErr != nil {
			b.logger.Error().Err(replyErr).Msg("failed to deliver failure reply")
		}
		// Reported to the requester; nothing left for the dispatcher.
		return nil
	}

	if err := inv.Reply(b.render(quote)); err != nil {
		b.onDemand.record(start, err)
		b.recordProm("on_demand", start, err)
		b.logger.Error().
			Err(err).
			Int64("chat_id", inv.ChatID).
			Msg("failed to deliver on-demand reply")
		return err
	}

	b.onDemand.record(start, nil)
	b.recordProm("on_demand", start, nil)
	return nil
}

// HandleHelp replies with usage information for the invoking conversation.
func (b *Bot) HandleHelp(inv Invocation) error {
	b.logger.Info().
		Str("username", inv.Username).
		Int64("chat_id", inv.ChatID).
		Msg("help request")
	return inv.Reply(report.HelpText(b.opts.Area, b.opts.UpdatePeriod))
}

// fetch runs one bounded provider fetch.
func (b *Bot) fetch(ctx context.Context) (prices.Quote, error) {
	fctx, cancel := context.WithTimeout(ctx, b.opts.FetchTimeout)
	defer cancel()
	return b.provider.Fetch(fctx, b.opts.Area)
}

// render formats a quote with the configured renderer.
func (b *Bot) render(q prices.Quote) string {
	if b.opts.Rich {
		return report.RenderRich(q, b.opts.Area, time.Now(), b.opts.UpdatePeriod)
	}
	return report.Render(q, b.opts.Area, time.Now(), b.opts.UpdatePeriod)
}

func (b *Bot) recordProm(origin string, start time.Time, err error) {
	if b.prom == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	b.prom.RecordCycle(origin, status, time.Since(start).Seconds())
}

// ScheduledMetrics returns a snapshot of the scheduled-cycle metrics.
func (b *Bot) ScheduledMetrics() CycleSnapshot {
	return b.scheduled.Snapshot()
}

// OnDemandMetrics returns a snapshot of the on-demand cycle metrics.
func (b *Bot) OnDemandMetrics() CycleSnapshot {
	return b.onDemand.Snapshot()
}
