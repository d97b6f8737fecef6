package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFieldCustody(t *testing.T) {
	var (
		assert = assert.New(t)
		schema = loadFixture(t)
	)

	// First field sits right after the 8 byte discriminator.
	res, err := schema.ResolveField("Custody", "owner")
	assert.NoError(err)
	assert.Equal(8, res.Offset)
	assert.Equal(Primitive{Kind: PublicKey}, res.Type)

	// 89 bytes of preceding fields plus the discriminator.
	res, err = schema.ResolveField("Custody", "pool")
	assert.NoError(err)
	assert.Equal(97, res.Offset)
	assert.Equal(Primitive{Kind: PublicKey}, res.Type)

	// Nested walk keeps accumulating into the same running offset.
	res, err = schema.ResolveField("Custody", "pricing.feeScalar")
	assert.NoError(err)
	assert.Equal(138, res.Offset)
	assert.Equal(Primitive{Kind: U64}, res.Type)

	res, err = schema.ResolveField("Custody", "assets.owned")
	assert.NoError(err)
	assert.Equal(170, res.Offset)

	// The matched field's own width is never added: resolving the nested
	// struct itself lands on its first byte.
	res, err = schema.ResolveField("Custody", "pricing")
	assert.NoError(err)
	assert.Equal(129, res.Offset)
	assert.Equal(Defined{Name: "PricingParams"}, res.Type)
}

func TestResolveFieldOffsetLaw(t *testing.T) {
	// Fields of sizes [a=4, b=32, c=8]: the third field resolves to
	// 8 + a + b and the first to 8.
	schema := parseSchema(t, `{
		"types": [],
		"accounts": [
			{"name": "Sample", "type": {"kind": "struct", "fields": [
				{"name": "a", "type": "u32"},
				{"name": "b", "type": "publicKey"},
				{"name": "c", "type": "u64"}
			]}}
		]
	}`)

	res, err := schema.ResolveField("Sample", "a")
	assert.NoError(t, err)
	assert.Equal(t, 8, res.Offset)

	res, err = schema.ResolveField("Sample", "c")
	assert.NoError(t, err)
	assert.Equal(t, 8+4+32, res.Offset)
}

func TestResolveFieldErrors(t *testing.T) {
	var (
		assert = assert.New(t)
		schema = loadFixture(t)
	)

	t.Run("Account_Not_Found", func(t *testing.T) {
		_, err := schema.ResolveField("Ghost", "pool")
		assert.ErrorIs(err, ErrAccountNotFound)
	})

	t.Run("Unknown_Segment", func(t *testing.T) {
		_, err := schema.ResolveField("Custody", "pricing.ghostField")
		assert.ErrorIs(err, ErrFieldNotFound)
		assert.ErrorContains(err, "ghostField")
	})

	t.Run("Unknown_Top_Level_Field", func(t *testing.T) {
		_, err := schema.ResolveField("Custody", "ghost")
		assert.ErrorIs(err, ErrFieldNotFound)
		assert.ErrorContains(err, "ghost")
	})

	t.Run("Descend_Into_Primitive", func(t *testing.T) {
		_, err := schema.ResolveField("Custody", "owner.inner")
		assert.ErrorIs(err, ErrNotAStruct)
	})

	t.Run("Empty_Path", func(t *testing.T) {
		_, err := schema.ResolveField("Custody", "")
		assert.ErrorIs(err, ErrFieldNotFound)
	})

	// A variable-width field ahead of the target makes the offset
	// statically unknowable; no partial offset is returned.
	t.Run("Dynamic_Field_Before_Target", func(t *testing.T) {
		_, err := schema.ResolveField("Pool", "adminBump")
		assert.ErrorIs(err, ErrDynamicSize)
	})

	// The dynamic field itself is still addressable: nothing precedes it,
	// so its own width is never needed.
	t.Run("Dynamic_Field_As_Target", func(t *testing.T) {
		res, err := schema.ResolveField("Pool", "name")
		assert.NoError(err)
		assert.Equal(8, res.Offset)
		assert.Equal(Primitive{Kind: String}, res.Type)
	})
}

// A failed resolution must not poison the schema for later lookups.
func TestResolveFieldAfterFailure(t *testing.T) {
	schema := loadFixture(t)

	_, err := schema.ResolveField("Custody", "no.such.path")
	assert.Error(t, err)

	res, err := schema.ResolveField("Custody", "pool")
	assert.NoError(t, err)
	assert.Equal(t, 97, res.Offset)
}
