package core

import "encoding/json"

// GenesisState is the canonical genesis document: a chain ID, the initial
// chain config, and a sequence of messages run once at InitChain time (spec
// §8, "Messages run sequentially from an all-zero sender; any failure is
// fatal and aborts genesis").
type GenesisState struct {
	ChainID string    `json:"chain_id"`
	Config  Config    `json:"config"`
	Msgs    []Message `json:"msgs"`
}

// MarshalJSON gives GenesisState the same tagged-envelope encoding for Msgs
// that Tx uses, since Message is an interface with no default JSON shape.
func (g GenesisState) MarshalJSON() ([]byte, error) {
	type wire struct {
		ChainID string            `json:"chain_id"`
		Config  Config            `json:"config"`
		Msgs    []json.RawMessage `json:"msgs"`
	}
	w := wire{ChainID: g.ChainID, Config: g.Config}
	for _, m := range g.Msgs {
		raw, err := marshalMessage(m)
		if err != nil {
			return nil, err
		}
		w.Msgs = append(w.Msgs, raw)
	}
	return json.Marshal(w)
}

func (g *GenesisState) UnmarshalJSON(data []byte) error {
	type wire struct {
		ChainID string            `json:"chain_id"`
		Config  Config            `json:"config"`
		Msgs    []json.RawMessage `json:"msgs"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return InvalidInput("unmarshal genesis: " + err.Error())
	}
	g.ChainID, g.Config = w.ChainID, w.Config
	g.Msgs = nil
	for _, raw := range w.Msgs {
		m, err := unmarshalMessage(raw)
		if err != nil {
			return err
		}
		g.Msgs = append(g.Msgs, m)
	}
	return nil
}
