package pipeline

import (
	"errors"
	"time"
)

var (
	// ErrNoHistory means no turns have been recorded yet.
	ErrNoHistory = errors.New("pipeline: no conversation history available")
	// ErrNoSuccessfulTurns means history holds no successful turns.
	ErrNoSuccessfulTurns = errors.New("pipeline: no successful turns in history")
)

// PerformanceStats aggregates per-stage latency over the recorded
// successful turns.
type PerformanceStats struct {
	TotalTurns      int     `json:"total_turns"`
	SuccessfulTurns int     `json:"successful_turns"`
	SuccessRate     float64 `json:"success_rate"`

	AverageSTT   time.Duration `json:"average_stt_time"`
	AverageLLM   time.Duration `json:"average_llm_time"`
	AverageTTS   time.Duration `json:"average_tts_time"`
	AverageTotal time.Duration `json:"average_total_time"`

	Fastest time.Duration `json:"fastest_response"`
	Slowest time.Duration `json:"slowest_response"`
}

// Stats computes latency statistics over the recorded history.
func (p *Pipeline) Stats() (*PerformanceStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.history) == 0 {
		return nil, ErrNoHistory
	}

	var (
		successes        int
		sttSum, llmSum   time.Duration
		ttsSum, totalSum time.Duration
		fastest, slowest time.Duration
	)
	for _, t := range p.history {
		if !t.Success {
			continue
		}
		successes++
		sttSum += t.STTTime
		llmSum += t.LLMTime
		ttsSum += t.TTSTime
		totalSum += t.TotalTime
		if fastest == 0 || t.TotalTime < fastest {
			fastest = t.TotalTime
		}
		if t.TotalTime > slowest {
			slowest = t.TotalTime
		}
	}
	if successes == 0 {
		return nil, ErrNoSuccessfulTurns
	}

	n := time.Duration(successes)
	return &PerformanceStats{
		TotalTurns:      len(p.history),
		SuccessfulTurns: successes,
		SuccessRate:     float64(successes) / float64(len(p.history)) * 100,
		AverageSTT:      sttSum / n,
		AverageLLM:      llmSum / n,
		AverageTTS:      ttsSum / n,
		AverageTotal:    totalSum / n,
		Fastest:         fastest,
		Slowest:         slowest,
	}, nil
}
