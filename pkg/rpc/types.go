package rpc

// Filter is an exact-match byte comparison applied server-side at a fixed
// byte offset into the record data. Multiple filters are AND-combined.
type Filter struct {
	Offset int
	Bytes  []byte
}

// Account is the raw record payload and its ledger metadata.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      string
	Executable bool
	RentEpoch  uint64
}

// KeyedAccount pairs a record with its address.
type KeyedAccount struct {
	Pubkey  string
	Account Account
}
