package nameservice

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InitMsg configures the prices of a new name service instance.
type InitMsg struct {
	PurchasePrice *sdk.Coin `json:"purchase_price,omitempty"`
	TransferPrice *sdk.Coin `json:"transfer_price,omitempty"`
}

// ExecuteMsg is the closed set of name service actions. Exactly one field is set.
type ExecuteMsg struct {
	Register *Register `json:"register,omitempty"`
	Transfer *Transfer `json:"transfer,omitempty"`
}

type Register struct {
	Name string `json:"name"`
}

type Transfer struct {
	Name string `json:"name"`
	To   string `json:"to"`
}

// QueryMsg is the closed set of name service queries. Exactly one field is set.
type QueryMsg struct {
	ResolveRecord *ResolveRecord `json:"resolve_record,omitempty"`
	Config        *ConfigQuery   `json:"config,omitempty"`
}

type ResolveRecord struct {
	Name string `json:"name"`
}

type ConfigQuery struct{}

// ResolveRecordResponse holds the owner of a name, if registered.
type ResolveRecordResponse struct {
	Address *string `json:"address,omitempty"`
}

// Config is the price configuration of an instance.
type Config struct {
	PurchasePrice *sdk.Coin `json:"purchase_price,omitempty"`
	TransferPrice *sdk.Coin `json:"transfer_price,omitempty"`
}
