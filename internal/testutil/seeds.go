package testutil

// CuratedSeeds are hand-picked operation sequences that exercise
// specific edge cases spec.md calls out explicitly, grounded on the
// teacher's curated_seeds.go ("deterministic regression cases the
// random generator might rarely hit").
var CuratedSeeds = map[string][]Op{
	"insert-then-try-insert-rejected": {
		{Kind: OpInsert, Key: "a", Value: 1},
		{Kind: OpTryInsert, Key: "a", Value: 2},
		{Kind: OpGet, Key: "a"},
	},
	"insert-remove-reinsert-reuses-tombstone": {
		{Kind: OpInsert, Key: "a", Value: 1},
		{Kind: OpRemove, Key: "a"},
		{Kind: OpGet, Key: "a"},
		{Kind: OpInsert, Key: "a", Value: 2},
		{Kind: OpGet, Key: "a"},
	},
	"update-on-absent-key-is-noop": {
		{Kind: OpUpdate, Key: "missing", Delta: 1},
		{Kind: OpLen},
	},
	"update-then-remove": {
		{Kind: OpInsert, Key: "a", Value: 10},
		{Kind: OpUpdate, Key: "a", Delta: 5},
		{Kind: OpGet, Key: "a"},
		{Kind: OpRemove, Key: "a"},
		{Kind: OpGet, Key: "a"},
		{Kind: OpLen},
	},
	"remove-then-get-not-found": {
		{Kind: OpInsert, Key: "a", Value: 1},
		{Kind: OpInsert, Key: "b", Value: 2},
		{Kind: OpRemove, Key: "a"},
		{Kind: OpGet, Key: "a"},
		{Kind: OpGet, Key: "b"},
	},
}
