package domain

// Account is a marketplace participant, keyed by the public key that signs
// its transactions. Assets is the append-only list of asset ids the account
// owns; the engine does not deduplicate it.
type Account struct {
	PublicKey   string   `msgpack:"public_key"`
	Label       string   `msgpack:"label"`
	Description string   `msgpack:"description"`
	Assets      []string `msgpack:"assets"`
}
