// Package pipeline runs the event normalization and alert dispatch pipeline:
// normalize -> classify -> format -> route -> dispatch, with per-item fault
// containment. A batch never fails as a whole; the upstream webhook provider
// would interpret a failure as cause for re-delivery.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"whalecaster/internal/classify"
	"whalecaster/internal/domain"
	"whalecaster/internal/format"
	"whalecaster/internal/market"
	"whalecaster/internal/normalize"
	"whalecaster/internal/observability"
	"whalecaster/internal/route"
	"whalecaster/internal/storage"
)

// Dispatcher delivers one rendered message to one channel endpoint and
// reports success. Failures are absorbed by the implementation.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel domain.Channel, endpoint string, msg format.Message) bool
}

// Broadcaster fans a dispatched alert out to live subscribers.
type Broadcaster interface {
	Broadcast(rec *domain.AlertRecord)
}

// Summary is the outcome of one batch. It is informational: the transport
// layer reports success to the provider regardless of its contents.
type Summary struct {
	Received   int `json:"received"`   // items in the batch
	Dispatched int `json:"dispatched"` // deliveries across all channels
	Suppressed int `json:"suppressed"` // duplicate deliveries withheld
	Skipped    int `json:"skipped"`    // items that routed nowhere
	Failed     int `json:"failed"`     // items that failed processing
}

// Options configures a Pipeline. Normalizer, Engine and Dispatcher are
// required; everything else is optional.
type Options struct {
	Normalizer *normalize.Normalizer
	Engine     *classify.Engine
	Channels   route.Channels
	Dispatcher Dispatcher
	Market     market.Provider       // nil disables tag enrichment
	AlertLog   storage.AlertLogStore // nil disables the alert log
	Dedup      storage.DedupStore    // nil disables duplicate suppression
	Hub        Broadcaster           // nil disables live streaming
	Logger     *log.Logger
}

// Pipeline processes webhook batches. Safe for concurrent use: all state is
// read-only after construction except the injected stores, which allow
// concurrent writers.
type Pipeline struct {
	normalizer *normalize.Normalizer
	engine     *classify.Engine
	channels   route.Channels
	dispatcher Dispatcher
	market     market.Provider
	alertLog   storage.AlertLogStore
	dedup      storage.DedupStore
	hub        Broadcaster
	logger     *log.Logger
	now        func() time.Time
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[pipeline] ", log.LstdFlags|log.Lshortfile)
	}
	return &Pipeline{
		normalizer: opts.Normalizer,
		engine:     opts.Engine,
		channels:   opts.Channels,
		dispatcher: opts.Dispatcher,
		market:     opts.Market,
		alertLog:   opts.AlertLog,
		dedup:      opts.Dedup,
		hub:        opts.Hub,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// ProcessBatch runs the pipeline over a request body holding either a single
// event object or an array of them. Items are processed in received order;
// one item's failure never aborts the rest. ProcessBatch itself never fails:
// a malformed body yields an empty summary.
func (p *Pipeline) ProcessBatch(ctx context.Context, body []byte) Summary {
	items, err := splitBatch(body)
	if err != nil {
		p.logger.Printf("malformed batch body: %v", err)
		return Summary{}
	}

	summary := Summary{Received: len(items)}
	observability.RecordBatch(len(items))

	for i, item := range items {
		outcome, err := p.processItem(ctx, item)
		if err != nil {
			p.logger.Printf("item %d/%d failed: %v", i+1, len(items), err)
			observability.RecordItemFailure()
			summary.Failed++
			continue
		}
		summary.Dispatched += outcome.dispatched
		summary.Suppressed += outcome.suppressed
		if outcome.dispatched == 0 && outcome.suppressed == 0 {
			summary.Skipped++
		}
	}

	return summary
}

// itemOutcome is the per-item result aggregated into the Summary.
type itemOutcome struct {
	dispatched int
	suppressed int
}

// processItem decodes and runs one event through the full pipeline. A panic
// anywhere in the stages is contained here and surfaced as the item's error.
func (p *Pipeline) processItem(ctx context.Context, item json.RawMessage) (outcome itemOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = itemOutcome{}
			err = fmt.Errorf("panic in pipeline stage: %v", r)
		}
	}()

	var raw map[string]any
	if err := json.Unmarshal(item, &raw); err != nil {
		return itemOutcome{}, fmt.Errorf("decode item: %w", err)
	}

	ev := p.normalizer.Normalize(raw)
	if ev.Kind == domain.EventKindUnknown {
		// Expected and frequent: providers send many event types.
		observability.RecordSkip("unknown_kind")
		return itemOutcome{}, nil
	}

	mkt := p.marketContext(ctx, ev.TokenMint)
	c := p.engine.Classify(ev, mkt)

	targets := route.Route(c, p.channels)
	if len(targets) == 0 {
		observability.RecordSkip("not_routed")
		return itemOutcome{}, nil
	}

	msg := format.Render(ev, c, mkt)

	for _, channel := range targets {
		if p.isDuplicate(ctx, ev, channel) {
			observability.RecordSuppressed()
			outcome.suppressed++
			continue
		}

		if !p.dispatcher.Dispatch(ctx, channel, p.channels.EndpointFor(channel), msg) {
			continue
		}
		outcome.dispatched++

		p.markDelivered(ctx, ev, channel)
		p.logAlert(ctx, ev, channel, msg)
	}

	return outcome, nil
}

// marketContext consults the enrichment provider; lookup failures degrade to
// no context rather than failing the item.
func (p *Pipeline) marketContext(ctx context.Context, mint string) *domain.MarketContext {
	if p.market == nil || mint == domain.UnknownMint {
		return nil
	}
	mkt, err := p.market.Context(ctx, mint)
	if err != nil {
		p.logger.Printf("market context for %s: %v", mint, err)
		return nil
	}
	return mkt
}

// isDuplicate reports whether this (signature, channel) pair was already
// delivered. Events without a real signature are never deduplicated: the
// sentinel would collide across unrelated events.
func (p *Pipeline) isDuplicate(ctx context.Context, ev domain.TradeEvent, channel domain.Channel) bool {
	if p.dedup == nil || ev.Signature == domain.MissingSignature {
		return false
	}
	return p.dedup.Seen(ctx, dedupKey(ev, channel))
}

func (p *Pipeline) markDelivered(ctx context.Context, ev domain.TradeEvent, channel domain.Channel) {
	if p.dedup == nil || ev.Signature == domain.MissingSignature {
		return
	}
	p.dedup.Mark(ctx, dedupKey(ev, channel))
}

func dedupKey(ev domain.TradeEvent, channel domain.Channel) string {
	return ev.Signature + ":" + string(channel)
}

// logAlert appends the dispatched alert to the log and broadcasts it to live
// subscribers. Log failures are observed but do not affect the item.
func (p *Pipeline) logAlert(ctx context.Context, ev domain.TradeEvent, channel domain.Channel, msg format.Message) {
	rec := &domain.AlertRecord{
		Wallet:       ev.SubjectAddress(),
		TokenMint:    ev.TokenMint,
		SolAmount:    ev.SolAmount,
		Signature:    ev.Signature,
		Channel:      channel,
		Tags:         msg.Tags,
		Timestamp:    ev.Timestamp,
		DispatchedAt: p.now().Unix(),
	}

	if p.alertLog != nil {
		if err := p.alertLog.Append(ctx, rec); err != nil {
			p.logger.Printf("append alert log: %v", err)
			observability.RecordAlertLogError()
		}
	}

	if p.hub != nil {
		p.hub.Broadcast(rec)
	}
}

// splitBatch accepts either a single JSON object or a JSON array and returns
// the individual items, each decoded later so one bad entry cannot poison
// the rest of the batch.
func splitBatch(body []byte) ([]json.RawMessage, error) {
	var many []json.RawMessage
	if err := json.Unmarshal(body, &many); err == nil {
		return many, nil
	}

	var single json.RawMessage
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("body is neither an event object nor an array: %w", err)
	}
	return []json.RawMessage{single}, nil
}
