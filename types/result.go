package types

// Attribute is a single key/value annotation on an event.
type Attribute struct {
	Key   string
	Value string
}

// Event is a typed group of attributes emitted while executing a tx.
type Event struct {
	Type       string
	Attributes []Attribute
}

// TxResult contains the result of a signed, included transaction
type TxResult struct {
	TxHash  string
	Height  int64
	GasUsed int64
	Events  []Event
}

// FindAttribute scans every event for an attribute with exactly the given
// key and value and reports the type of the first event that carries it.
func (r *TxResult) FindAttribute(key, value string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, ev := range r.Events {
		for _, attr := range ev.Attributes {
			if attr.Key == key && attr.Value == value {
				return ev.Type, true
			}
		}
	}
	return "", false
}

// AttributeValue returns the value of the first attribute matching attrKey
// inside the first event of eventType.
func (r *TxResult) AttributeValue(eventType, attrKey string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, ev := range r.Events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == attrKey {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// InstantiateResult contains the result of a contract instantiation
type InstantiateResult struct {
	TxResult
	ContractAddress string
}

// UploadResult contains the result of a code upload
type UploadResult struct {
	TxResult
	CodeID   uint64
	Checksum string
}

// UploadMeta describes where uploaded wasm byte code came from.
type UploadMeta struct {
	Source  string
	Builder string
}
