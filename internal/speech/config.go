package speech

import "time"

// DefaultVoice is the Azure neural voice used for narration.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// DefaultChunkSize is the approximate character count per synthesis
// request. Longer text is split at sentence boundaries.
const DefaultChunkSize = 200

// DefaultNarrationTimeout bounds a single narration from synthesis to the
// end of playback.
const DefaultNarrationTimeout = 2 * time.Minute

// Speech capture defaults.
const (
	DefaultWhisperBin = "whisper-cli"
	DefaultTempDir    = ".otto-stt"
)
