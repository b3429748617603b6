package core

import (
	"encoding/json"
)

// Tx is a signed transaction: one or more messages executed atomically as a
// unit of authentication and fee accounting (spec §3). Msgs must be
// non-empty.
type Tx struct {
	Sender     Addr      `json:"sender"`
	GasLimit   uint64    `json:"gas_limit"`
	Msgs       []Message `json:"msgs"`
	Credential Binary    `json:"credential"`
}

// Validate enforces the Tx-level invariant that msgs is non-empty.
func (t Tx) Validate() error {
	if len(t.Msgs) == 0 {
		return InvalidInput("tx: msgs must be non-empty")
	}
	return nil
}

// messageEnvelope is the canonical wire encoding of a Message: a single-key
// object whose key names the variant and whose value is the variant's own
// field set (spec §8, "Messages are tagged by variant name with the
// payloads described in §3").
type messageEnvelope struct {
	UpdateConfig      *MsgUpdateConfig      `json:"update_config,omitempty"`
	Configure         *MsgConfigure         `json:"configure,omitempty"`
	Transfer          *MsgTransfer          `json:"transfer,omitempty"`
	StoreCode         *MsgStoreCode         `json:"store_code,omitempty"`
	Instantiate       *MsgInstantiate       `json:"instantiate,omitempty"`
	Execute           *MsgExecute           `json:"execute,omitempty"`
	Migrate           *MsgMigrate           `json:"migrate,omitempty"`
	CreateClient      *MsgCreateClient      `json:"create_client,omitempty"`
	UpdateClient      *MsgUpdateClient      `json:"update_client,omitempty"`
	SubmitMisbehavior *MsgSubmitMisbehavior `json:"submit_misbehavior,omitempty"`
}

func encodeMessage(m Message) (messageEnvelope, error) {
	var env messageEnvelope
	switch v := m.(type) {
	case MsgUpdateConfig:
		env.UpdateConfig = &v
	case MsgConfigure:
		env.Configure = &v
	case MsgTransfer:
		env.Transfer = &v
	case MsgStoreCode:
		env.StoreCode = &v
	case MsgInstantiate:
		env.Instantiate = &v
	case MsgExecute:
		env.Execute = &v
	case MsgMigrate:
		env.Migrate = &v
	case MsgCreateClient:
		env.CreateClient = &v
	case MsgUpdateClient:
		env.UpdateClient = &v
	case MsgSubmitMisbehavior:
		env.SubmitMisbehavior = &v
	default:
		return env, InvalidInput("unknown message variant")
	}
	return env, nil
}

func decodeMessage(env messageEnvelope) (Message, error) {
	switch {
	case env.UpdateConfig != nil:
		return *env.UpdateConfig, nil
	case env.Configure != nil:
		return *env.Configure, nil
	case env.Transfer != nil:
		return *env.Transfer, nil
	case env.StoreCode != nil:
		return *env.StoreCode, nil
	case env.Instantiate != nil:
		return *env.Instantiate, nil
	case env.Execute != nil:
		return *env.Execute, nil
	case env.Migrate != nil:
		return *env.Migrate, nil
	case env.CreateClient != nil:
		return *env.CreateClient, nil
	case env.UpdateClient != nil:
		return *env.UpdateClient, nil
	case env.SubmitMisbehavior != nil:
		return *env.SubmitMisbehavior, nil
	default:
		return nil, InvalidInput("message envelope: no recognized variant tag")
	}
}

// marshalMessage implements the tagged-envelope wire format for a single
// Message. It is used for Tx.Msgs, GenesisState.Msgs and SubMessage.Msg.
func marshalMessage(m Message) ([]byte, error) {
	env, err := encodeMessage(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func unmarshalMessage(data []byte) (Message, error) {
	var env messageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, InvalidInput("unmarshal message: " + err.Error())
	}
	return decodeMessage(env)
}

// MarshalJSON lets Tx participate directly in json.Marshal despite Msgs
// being a slice of the Message interface.
func (t Tx) MarshalJSON() ([]byte, error) {
	type wire struct {
		Sender     Addr              `json:"sender"`
		GasLimit   uint64            `json:"gas_limit"`
		Msgs       []json.RawMessage `json:"msgs"`
		Credential Binary            `json:"credential"`
	}
	w := wire{Sender: t.Sender, GasLimit: t.GasLimit, Credential: t.Credential}
	for _, m := range t.Msgs {
		raw, err := marshalMessage(m)
		if err != nil {
			return nil, err
		}
		w.Msgs = append(w.Msgs, raw)
	}
	return json.Marshal(w)
}

func (t *Tx) UnmarshalJSON(data []byte) error {
	type wire struct {
		Sender     Addr              `json:"sender"`
		GasLimit   uint64            `json:"gas_limit"`
		Msgs       []json.RawMessage `json:"msgs"`
		Credential Binary            `json:"credential"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return InvalidInput("unmarshal tx: " + err.Error())
	}
	t.Sender, t.GasLimit, t.Credential = w.Sender, w.GasLimit, w.Credential
	t.Msgs = nil
	for _, raw := range w.Msgs {
		m, err := unmarshalMessage(raw)
		if err != nil {
			return err
		}
		t.Msgs = append(t.Msgs, m)
	}
	return nil
}

// MarshalJSON gives SubMessage the same tagged-envelope encoding as Tx.Msgs.
func (s SubMessage) MarshalJSON() ([]byte, error) {
	return marshalMessage(s.Msg)
}

func (s *SubMessage) UnmarshalJSON(data []byte) error {
	m, err := unmarshalMessage(data)
	if err != nil {
		return err
	}
	s.Msg = m
	return nil
}

// TxOutcome records the result of running a single Tx within a block.
type TxOutcome struct {
	GasUsed uint64  `json:"gas_used"`
	Events  []Event `json:"events"`
	Error   string  `json:"error,omitempty"`
}

// BlockOutcome aggregates every Tx's outcome plus the resulting app hash.
type BlockOutcome struct {
	TxOutcomes []TxOutcome `json:"tx_outcomes"`
	AppHash    Hash        `json:"app_hash"`
}
