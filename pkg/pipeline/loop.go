package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// simulatedInputs scripts the batch conversation loop. Turns past the
// last entry repeat it.
var simulatedInputs = []string{
	"Hello Parvis, how are you today?",
	"What's the weather like?",
	"Tell me a joke",
	"What can you help me with?",
	"Thank you, that was helpful",
}

// ConversationLoop runs maxTurns scripted turns back to back,
// pausing between them, and prints a performance summary at the end.
// The loop stops early on the first failed turn or when ctx is
// cancelled.
func (p *Pipeline) ConversationLoop(ctx context.Context, maxTurns int) error {
	out := p.cfg.Output
	fmt.Fprintf(out, "🤖 Parvis conversation loop starting (%d turns)\n", maxTurns)
	fmt.Fprintln(out, strings.Repeat("=", 50))

	for turnNum := 1; turnNum <= maxTurns; turnNum++ {
		fmt.Fprintf(out, "\n--- Turn %d/%d ---\n", turnNum, maxTurns)

		utterance := simulatedInputs[min(turnNum-1, len(simulatedInputs)-1)]
		turn := p.ProcessVoiceInput(ctx, utterance)
		if !turn.Success {
			fmt.Fprintf(out, "❌ Turn failed: %s\n", turn.ErrorMessage)
			break
		}
		fmt.Fprintf(out, "✅ Turn completed in %.2fs\n", turn.TotalTime.Seconds())

		if turnNum < maxTurns {
			if err := sleepCtx(ctx, p.cfg.TurnPause); err != nil {
				return err
			}
		}
	}

	p.PrintSummary()
	return ctx.Err()
}

// InteractiveLoop reads utterances line by line and runs a turn for
// each. Blank lines are skipped; "quit", "exit" or "goodbye" ends the
// loop with a spoken farewell.
func (p *Pipeline) InteractiveLoop(ctx context.Context, in io.Reader) error {
	out := p.cfg.Output
	fmt.Fprintln(out, "💬 Text mode, type your messages (quit/exit/goodbye to stop)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "goodbye":
			if err := p.svc.Synthesize(ctx, "Goodbye!"); err != nil {
				p.logger.Warn("farewell synthesis failed", "error", err)
			}
			return nil
		}

		p.ProcessVoiceInput(ctx, line)
	}
}

// PrintSummary writes the aggregate latency report for the recorded
// history to the configured output.
func (p *Pipeline) PrintSummary() {
	out := p.cfg.Output

	stats, err := p.Stats()
	if err != nil {
		fmt.Fprintf(out, "\n📊 Performance summary: %v\n", err)
		return
	}

	fmt.Fprintln(out, "\n📊 Performance summary:")
	fmt.Fprintf(out, "   Total turns: %d\n", stats.TotalTurns)
	fmt.Fprintf(out, "   Successful: %d (%.1f%%)\n", stats.SuccessfulTurns, stats.SuccessRate)
	fmt.Fprintf(out, "   Average STT time: %.2fs\n", stats.AverageSTT.Seconds())
	fmt.Fprintf(out, "   Average LLM time: %.2fs\n", stats.AverageLLM.Seconds())
	fmt.Fprintf(out, "   Average TTS time: %.2fs\n", stats.AverageTTS.Seconds())
	fmt.Fprintf(out, "   Average total: %.2fs\n", stats.AverageTotal.Seconds())
	fmt.Fprintf(out, "   Fastest response: %.2fs\n", stats.Fastest.Seconds())
	fmt.Fprintf(out, "   Slowest response: %.2fs\n", stats.Slowest.Seconds())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
