package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LooseID decodes ids stored either as strings or as numbers.
// Older collections used millisecond timestamps as numeric ids.
type LooseID string

// UnmarshalJSON accepts a string, a number or null
func (id *LooseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LooseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = LooseID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = LooseID(n.String())
	return nil
}

// sourceJSON is the stored envelope of a source
type sourceJSON struct {
	ID         LooseID         `json:"id,omitempty"`
	Name       string          `json:"name"`
	SourceType SourceType      `json:"source_type"`
	Config     json.RawMessage `json:"config"`
	Secrets    json.RawMessage `json:"secrets"`
}

// MarshalJSON writes the {id, name, source_type, config, secrets} envelope.
// Absent secrets are written as an empty object.
func (s Source) MarshalJSON() ([]byte, error) {
	env := sourceJSON{ID: LooseID(s.ID), Name: s.Name, SourceType: s.Type}

	cfg := s.Config
	if cfg == nil {
		cfg = NewConfig(s.Type)
	}
	var err error
	if cfg == nil {
		env.Config = json.RawMessage("{}")
	} else if env.Config, err = json.Marshal(cfg); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	env.Secrets = json.RawMessage("{}")
	if s.Secrets != nil {
		if env.Secrets, err = json.Marshal(s.Secrets); err != nil {
			return nil, fmt.Errorf("marshal secrets: %w", err)
		}
	}
	return json.Marshal(env)
}

// UnmarshalJSON reads the envelope and picks config and secrets variants by source_type
func (s *Source) UnmarshalJSON(data []byte) error {
	var env sourceJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	t, err := ParseSourceType(string(env.SourceType))
	if err != nil {
		return err
	}

	cfg := NewConfig(t)
	if len(env.Config) > 0 && !bytes.Equal(env.Config, []byte("null")) {
		if err := json.Unmarshal(env.Config, cfg); err != nil {
			return fmt.Errorf("decode %s config: %w", t, err)
		}
	}

	sec := NewSecrets(t)
	if sec != nil && len(env.Secrets) > 0 && !bytes.Equal(env.Secrets, []byte("null")) {
		if err := json.Unmarshal(env.Secrets, sec); err != nil {
			return fmt.Errorf("decode %s secrets: %w", t, err)
		}
	}

	*s = Source{ID: string(env.ID), Name: env.Name, Type: t, Config: cfg, Secrets: sec}
	return nil
}
