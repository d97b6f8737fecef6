// Package scanner narrows a program's record set down to the accounts
// matching a list of (field path, value) constraints.
//
// Exactly one remote fetch is issued per search: the account discriminator
// and the first constraint are pushed to the server as equality filters,
// and every remaining constraint is applied locally by comparing the raw
// byte slice at its resolved offset. Remote filter engines charge a full
// scan per filter, so shipping only the first constraint keeps the cost at
// one scan while the rest of the narrowing happens in memory.
package scanner

import (
	"bytes"
	"context"
	"fmt"

	"github.com/zerodha/logf"

	"github.com/anchorlens/anchorlens/pkg/codec"
	"github.com/anchorlens/anchorlens/pkg/idl"
	"github.com/anchorlens/anchorlens/pkg/rpc"
)

// Constraint pairs a dotted field path with the textual value the field
// must equal. Constraints are applied in caller order.
type Constraint struct {
	Path  string
	Value string
}

// Fetcher is the remote fetch capability the engine consumes: all records
// of a program matching a set of AND-combined equality filters.
type Fetcher interface {
	ProgramAccounts(ctx context.Context, program string, filters []rpc.Filter) ([]rpc.KeyedAccount, error)
}

// Engine resolves constraints against a parsed schema and runs searches
// through a Fetcher. An Engine is stateless between searches and safe for
// concurrent use.
type Engine struct {
	schema *idl.IDL
	fetch  Fetcher
	lo     logf.Logger
}

// New creates a search engine over the given schema and fetch capability.
func New(schema *idl.IDL, fetch Fetcher, cfgs ...Config) (*Engine, error) {
	opts := DefaultOptions()
	for _, cfg := range cfgs {
		if err := cfg(opts); err != nil {
			return nil, err
		}
	}

	return &Engine{
		schema: schema,
		fetch:  fetch,
		lo:     initLogger(opts.debug),
	}, nil
}

// resolvedConstraint is a constraint bound to its byte-level meaning:
// the absolute offset of the field and the encoded value to compare.
type resolvedConstraint struct {
	path   string
	offset int
	value  []byte
}

// Search returns the accounts of the named type whose fields equal every
// constraint value. With no constraints it lists all records of the type.
func (e *Engine) Search(ctx context.Context, program, account string, constraints []Constraint) ([]rpc.KeyedAccount, error) {
	discrim := idl.AccountDiscriminator(account)
	filters := []rpc.Filter{{Offset: 0, Bytes: discrim[:]}}

	if len(constraints) == 0 {
		e.lo.Debug("listing all records of type", "account", account)
		return e.fetch.ProgramAccounts(ctx, program, filters)
	}

	resolved := make([]resolvedConstraint, 0, len(constraints))
	for _, c := range constraints {
		rc, err := e.resolveConstraint(account, c)
		if err != nil {
			return nil, err
		}
		e.lo.Debug("resolved constraint", "path", rc.path, "offset", rc.offset, "width", len(rc.value))
		resolved = append(resolved, rc)
	}

	// Only the first constraint rides along with the discriminator filter;
	// it bounds the transferred superset.
	first := resolved[0]
	filters = append(filters, rpc.Filter{Offset: first.offset, Bytes: first.value})

	accounts, err := e.fetch.ProgramAccounts(ctx, program, filters)
	if err != nil {
		return nil, err
	}

	for _, rc := range resolved[1:] {
		before := len(accounts)
		accounts = filterByConstraint(accounts, rc)
		e.lo.Debug("applied local constraint", "path", rc.path, "before", before, "after", len(accounts))
	}

	return accounts, nil
}

// resolveConstraint turns a (path, value) pair into its byte-level form.
func (e *Engine) resolveConstraint(account string, c Constraint) (resolvedConstraint, error) {
	res, err := e.schema.ResolveField(account, c.Path)
	if err != nil {
		return resolvedConstraint{}, fmt.Errorf("resolving %q: %w", c.Path, err)
	}

	encoded, err := codec.Encode(c.Value, res.Type)
	if err != nil {
		return resolvedConstraint{}, fmt.Errorf("encoding value for %q: %w", c.Path, err)
	}

	return resolvedConstraint{path: c.Path, offset: res.Offset, value: encoded}, nil
}

// filterByConstraint keeps the accounts whose bytes at the constraint's
// offset equal its encoded value. Records too short to contain the slice
// are dropped. The result is always a subset of the input, in input order.
func filterByConstraint(accounts []rpc.KeyedAccount, rc resolvedConstraint) []rpc.KeyedAccount {
	matched := make([]rpc.KeyedAccount, 0, len(accounts))

	for _, acc := range accounts {
		end := rc.offset + len(rc.value)
		if end > len(acc.Account.Data) {
			continue
		}
		if bytes.Equal(acc.Account.Data[rc.offset:end], rc.value) {
			matched = append(matched, acc)
		}
	}

	return matched
}

// ExtractValue resolves a field path against the schema and decodes the
// field's value out of a raw record buffer.
func (e *Engine) ExtractValue(data []byte, account, path string) (string, error) {
	res, err := e.schema.ResolveField(account, path)
	if err != nil {
		return "", err
	}

	return codec.Decode(data, res.Offset, res.Type)
}
