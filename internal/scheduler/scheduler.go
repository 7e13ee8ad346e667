package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"StrikeBand/internal/calculator"
	"StrikeBand/internal/collector"
	"StrikeBand/internal/model"
	"StrikeBand/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted message.
type Sender interface {
	Send(text string) error
}

// Scheduler runs the watch-list digest on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Watch     []model.Symbol
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, watch []string) *Scheduler {
	symbols := make([]model.Symbol, 0, len(watch))
	for _, w := range watch {
		if s := strings.ToUpper(strings.TrimSpace(w)); s != "" {
			symbols = append(symbols, model.Symbol(s))
		}
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Watch:     symbols,
		Ctx:       ctx,
	}
}

// RegisterDigest registers the digest job.
func (s *Scheduler) RegisterDigest(spec string) error {
	if len(s.Watch) == 0 {
		return fmt.Errorf("digest needs at least one watch symbol")
	}
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDigestNow executes the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

// digestTask runs the pipeline for each watch symbol in turn.
func (s *Scheduler) digestTask() {
	log.Printf("[INFO] running digest for %d symbols", len(s.Watch))
	for _, sym := range s.Watch {
		if s.Ctx.Err() != nil {
			return
		}
		rep, err := s.Collector.Collect(s.Ctx, collector.Request{Symbol: sym})
		if err != nil {
			log.Printf("[ERROR] digest %s: %v", sym, err)
			s.trySend(fmt.Sprintf("❌ Digest for %s skipped: %v", sym, err))
			continue
		}
		s.trySend(notifier.FormatReport(rep))
	}
}

const usage = "Available commands:\n" +
	"• /symbols\n" +
	"• /options SYMBOL [START END] (dates as YYYY-MM-DD)\n" +
	"• /band SPOT [PCT [INCREMENT]]"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	switch strings.ToLower(fields[0]) {
	case "/symbols":
		if s.Collector.Catalog == nil {
			return "No catalog loaded"
		}
		return notifier.FormatSymbols(s.Collector.Catalog.Symbols)
	case "/options":
		return s.handleOptions(ctx, fields[1:])
	case "/band":
		return s.handleBand(fields[1:])
	default:
		return usage
	}
}

func (s *Scheduler) handleOptions(ctx context.Context, args []string) string {
	if len(args) != 1 && len(args) != 3 {
		return usage
	}
	req := collector.Request{Symbol: model.Symbol(strings.ToUpper(args[0]))}
	if len(args) == 3 {
		start, err := time.Parse(time.DateOnly, args[1])
		if err != nil {
			return fmt.Sprintf("❌ invalid start date %q", args[1])
		}
		end, err := time.Parse(time.DateOnly, args[2])
		if err != nil {
			return fmt.Sprintf("❌ invalid end date %q", args[2])
		}
		req.Start, req.End = start, end
	}
	rep, err := s.Collector.Collect(ctx, req)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	return notifier.FormatReport(rep)
}

func (s *Scheduler) handleBand(args []string) string {
	if len(args) < 1 || len(args) > 3 {
		return usage
	}
	vals := []float64{0, s.Collector.Options.Pct, s.Collector.Options.Increment}
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Sprintf("❌ %q is not a number", a)
		}
		vals[i] = v
	}
	band, err := calculator.ComputeBand(vals[0], vals[1])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	strikes, err := calculator.GenerateStrikes(vals[0], vals[1], vals[2])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	return notifier.FormatBand(band, vals[2], strikes)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
