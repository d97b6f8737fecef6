package scanner

import (
	"sort"

	"github.com/anchorlens/anchorlens/pkg/codec"
	"github.com/anchorlens/anchorlens/pkg/rpc"
)

// ValueCount is one bucket of a field value histogram.
type ValueCount struct {
	Value string
	Count int
}

// ValueHistogram decodes the field at path out of every account and counts
// the distinct values, most frequent first (ties break on the value for a
// deterministic order). Accounts whose buffer is too short or whose field
// fails to decode are skipped rather than failing the whole analysis.
func (e *Engine) ValueHistogram(accounts []rpc.KeyedAccount, account, path string) ([]ValueCount, error) {
	res, err := e.schema.ResolveField(account, path)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, acc := range accounts {
		value, err := codec.Decode(acc.Account.Data, res.Offset, res.Type)
		if err != nil {
			e.lo.Debug("skipping undecodable record", "pubkey", acc.Pubkey, "path", path, "error", err)
			continue
		}
		counts[value]++
	}

	buckets := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, ValueCount{Value: value, Count: count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})

	return buckets, nil
}
