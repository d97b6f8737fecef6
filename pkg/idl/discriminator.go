package idl

import "crypto/sha256"

// DiscriminatorLen is the length of the type tag prefixed to every account
// record. All resolved field offsets are relative to the end of this tag.
const DiscriminatorLen = 8

// AccountDiscriminator derives the 8 byte tag that prefixes every record of
// the named account type: the first 8 bytes of SHA-256("account:" + name).
func AccountDiscriminator(name string) [DiscriminatorLen]byte {
	sum := sha256.Sum256([]byte("account:" + name))

	var discrim [DiscriminatorLen]byte
	copy(discrim[:], sum[:DiscriminatorLen])
	return discrim
}
