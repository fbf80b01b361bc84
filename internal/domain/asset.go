package domain

// Asset is a quantity-bearing holding of a Resource, owned by one Account.
// Quantity never goes negative on non-infinite exchange paths and is only
// mutated through quantity-change operations, never overwritten wholesale.
type Asset struct {
	ID          string `msgpack:"id"`
	Label       string `msgpack:"label"`
	Description string `msgpack:"description"`
	Account     string `msgpack:"account"`
	Resource    string `msgpack:"resource"`
	Quantity    uint64 `msgpack:"quantity"`
}
