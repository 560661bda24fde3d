package pipeline

import "time"

// ConversationTurn records one exchange through the pipeline. It is
// created at turn start and each stage fills in its result and timing
// as it completes. Audio file references are optional and stay empty
// in the modes that never touch disk.
type ConversationTurn struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"timestamp"`

	UserAudioFile      string `json:"user_audio_file,omitempty"`
	UserText           string `json:"user_text"`
	AssistantText      string `json:"assistant_text"`
	AssistantAudioFile string `json:"assistant_audio_file,omitempty"`

	STTTime   time.Duration `json:"stt_time"`
	LLMTime   time.Duration `json:"llm_time"`
	TTSTime   time.Duration `json:"tts_time"`
	TotalTime time.Duration `json:"total_time"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}
