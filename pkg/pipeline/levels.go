package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/neurite-tools/neurite/pkg/swc"
)

// Cached runs serialize each level through the text codec, which is
// already order-normalized, and wrap the levels in a JSON envelope.
type levelEnvelope struct {
	Levels []string `json:"levels"`
}

func encodeLevels(levels []swc.NodeSet) ([]byte, error) {
	env := levelEnvelope{Levels: make([]string, len(levels))}
	for i, ns := range levels {
		var buf bytes.Buffer
		if err := swc.Write(ns, &buf); err != nil {
			return nil, err
		}
		env.Levels[i] = buf.String()
	}
	return json.Marshal(env)
}

func decodeLevels(data []byte) ([]swc.NodeSet, error) {
	var env levelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	levels := make([]swc.NodeSet, len(env.Levels))
	for i, text := range env.Levels {
		ns, _, err := swc.Read(bytes.NewReader([]byte(text)))
		if err != nil {
			return nil, err
		}
		levels[i] = ns
	}
	return levels, nil
}
