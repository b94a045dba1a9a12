package domain

// BrokerFlowRow is one brokerage branch's buy/sell amounts from the
// broker-flow ranking dump. BrokerName never starts with a digit; a
// digit-prefixed name denotes a security row captured by mistake and is
// filtered out before this model is built.
type BrokerFlowRow struct {
	BrokerName string `json:"broker"`
	BuyAmount  int64  `json:"buy"`
	SellAmount int64  `json:"sell"`
	Diff       int64  `json:"diff"`
}

// BrokerFlowReport is the parsed broker-flow table, already filtered down to
// the rows of interest in page order.
type BrokerFlowReport struct {
	Rows []BrokerFlowRow `json:"rows"`
}
