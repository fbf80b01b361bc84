package domain

// Transfer is a pre-staged bilateral transfer intent, keyed by (transfer id,
// initiating account). The transfer handler consumes these records; it does
// not create them.
type Transfer struct {
	ID      string `msgpack:"id"`
	Label   string `msgpack:"label"`
	Account string `msgpack:"account"`
	Source  string `msgpack:"source"`
	Target  string `msgpack:"target"`
	Amount  uint64 `msgpack:"amount"`
}
