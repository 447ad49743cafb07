package model

import (
	"time"
)

// CrackResult is the outcome of one key-space search, ready for display,
// export and archiving. Plaintext is always the raw bytes; PlaintextText is
// a lossy rendering for humans.
type CrackResult struct {
	ID            string        `json:"id"`
	Source        string        `json:"source"`
	Key           [2]byte       `json:"-"`
	KeyText       string        `json:"key"`     // key as two single-byte characters
	KeyHex        string        `json:"key_hex"` // key as hex
	Plaintext     []byte        `json:"plaintext"`
	PlaintextText string        `json:"plaintext_text"`
	Score         int           `json:"score"`
	Strategy      string        `json:"strategy"`
	KeysExamined  int           `json:"keys_examined"`
	StoppedEarly  bool          `json:"stopped_early"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ElapsedSeconds returns the wall-clock search time in seconds.
func (r *CrackResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}
