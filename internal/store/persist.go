package store

import (
	"encoding/json"
	"fmt"

	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 1

// Persisted is the envelope stored in the KV.
type Persisted struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// persistedConfig is the saved projection of a Config. The outer Data field
// shadows the embedded one so the encoded text is never written or restored.
type persistedConfig struct {
	qrconfig.Config
	Data string `json:"data,omitempty"`
}

func encode(cfg qrconfig.Config) ([]byte, error) {
	state, err := json.Marshal(persistedConfig{Config: cfg})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(Persisted{Version: CurrentVersion, State: state})
}

func decode(raw []byte) (qrconfig.Config, error) {
	var p Persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return qrconfig.Config{}, fmt.Errorf("decode envelope: %w", err)
	}
	return Migrate(p.Version, p.State)
}

// Migrate upgrades a saved state to the current Config. Version 0 states
// predate most style fields, so anything missing takes its default.
// Version 1 is the current layout and is decoded as is. Data is always
// empty in the result.
func Migrate(version int, state json.RawMessage) (qrconfig.Config, error) {
	var p persistedConfig
	switch version {
	case 0:
		p.Config = qrconfig.Defaults()
	case CurrentVersion:
	default:
		return qrconfig.Config{}, fmt.Errorf("unsupported state version %d", version)
	}

	if len(state) > 0 {
		if err := json.Unmarshal(state, &p); err != nil {
			return qrconfig.Config{}, fmt.Errorf("decode state v%d: %w", version, err)
		}
	}
	p.Config.Data = ""
	return p.Config, nil
}
