package types

import (
	"encoding/base64"

	abcitypes "cosmossdk.io/api/cosmos/base/abci/v1beta1"
)

// EventsFromProto converts the events of a tx response. Nodes running older
// CometBFT versions base64-encode keys and values; those are decoded when the
// result is readable text.
func EventsFromProto(resp *abcitypes.TxResponse) []Event {
	if resp == nil {
		return nil
	}
	events := make([]Event, 0, len(resp.GetEvents()))
	for _, ev := range resp.GetEvents() {
		if ev == nil {
			continue
		}
		// abci.Event uses GetType_() since 'type' is a reserved field name
		out := Event{Type: ev.GetType_()}
		for _, a := range ev.GetAttributes() {
			if a == nil {
				continue
			}
			out.Attributes = append(out.Attributes, Attribute{
				Key:   decodeEventValue(a.GetKey()),
				Value: decodeEventValue(a.GetValue()),
			})
		}
		events = append(events, out)
	}
	return events
}

// TxResultFromProto builds a TxResult from a tx response.
func TxResultFromProto(resp *abcitypes.TxResponse) *TxResult {
	if resp == nil {
		return nil
	}
	return &TxResult{
		TxHash:  resp.GetTxhash(),
		Height:  resp.GetHeight(),
		GasUsed: resp.GetGasUsed(),
		Events:  EventsFromProto(resp),
	}
}

func decodeEventValue(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return raw
	}
	if !isMostlyPrintableASCII(decoded) {
		return raw
	}
	return string(decoded)
}

func isMostlyPrintableASCII(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	printable := 0
	for _, b := range data {
		if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b <= 126) {
			printable++
		}
	}
	return printable*100/len(data) >= 90
}
