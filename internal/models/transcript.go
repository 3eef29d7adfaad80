package models

import (
	"gopkg.in/yaml.v3"
)

// Transcript is the exportable view of a session.
type Transcript struct {
	SessionID string    `yaml:"session_id"`
	State     GameState `yaml:"state"`
}

// Marshal renders the transcript as YAML.
func (t Transcript) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// ParseTranscript reads a transcript previously produced by Marshal.
func ParseTranscript(data []byte) (*Transcript, error) {
	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
