// Package operator defines search operators and builds the per-request
// operator registry.
//
// An operator is a key:value token inside free search text, for example
// title:community or post_status:draft. Each operator maps its key to a
// query variable and restricts its value with a regular expression fragment.
//
// COLLECTION:
//
// Operators are contributed by providers. A Collector runs its providers in
// registration order over a single RawSet that is passed explicitly to each
// provider call:
//
//	c := operator.NewCollector(logger, operator.DefaultProvider)
//	c.Register(func(set *operator.RawSet) {
//	    set.Put("author", operator.Pattern(`\w+`))
//	})
//	reg := c.Registry()
//
// Providers may add, overwrite or delete entries. DefaultProvider only adds
// keys that are not present yet, so contributions made before it win.
//
// ENTRY FORMS:
//
// A RawSet entry is either shorthand or structured:
//   - Pattern("[\\w\\-]+") - the query variable is the key itself
//   - Structured{QueryVar: "post_id", Pattern: "[1-9]\\d*"} - explicit
//     query variable; an empty QueryVar defaults to the key
//
// BEST-EFFORT VALIDATION:
//
// Build folds raw entries into a Registry. Invalid entries are dropped and
// reported as DefinitionErrors; they never abort the fold, so one broken
// contributor cannot disable the others. Rejection codes:
//
//	E201  empty key
//	E202  empty pattern
//	E203  empty query variable
//	E204  query variable collides with the reserved search variable "s"
//	E205  pattern does not compile inside its key:(?:pattern) fragment
//
// A Registry is immutable once built. Build a fresh one per parse request
// (Collector.Registry does this); no state is shared across requests.
package operator
