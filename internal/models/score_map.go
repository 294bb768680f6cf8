package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ScoreMap accumulates per-area points for a session. It is stored as JSONB.
// Keys come from the closed Area enum; entries are only ever incremented,
// the map itself is never reset across phase transitions.
type ScoreMap map[Area]int

func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		m = ScoreMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *ScoreMap) Scan(value interface{}) error {
	if value == nil {
		*m = ScoreMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported score map column type %T", value)
	}
	if len(data) == 0 {
		*m = ScoreMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

func (ScoreMap) GormDataType() string {
	return "jsonb"
}

// Add records one point for the given area. NONE never scores.
func (m ScoreMap) Add(area Area) {
	if area == AreaNone || area == "" {
		return
	}
	m[area]++
}

// Clone returns an independent copy.
func (m ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
