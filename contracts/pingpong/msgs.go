package pingpong

// InstantiateMsg is the (empty) init payload of the ping-pong contract.
type InstantiateMsg struct{}

// ExecuteMsg is the closed set of ping-pong actions. Exactly one field is set.
type ExecuteMsg struct {
	Ping *Ping `json:"ping,omitempty"`
}

// Ping asks the contract to answer with a pong event.
type Ping struct{}

// QueryMsg is the closed set of ping-pong queries. Exactly one field is set.
type QueryMsg struct {
	GetCount *GetCount `json:"get_count,omitempty"`
}

// GetCount returns how many pings the contract has answered.
type GetCount struct{}
