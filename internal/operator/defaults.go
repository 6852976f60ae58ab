package operator

// Post-related operators shipped with the module.
//
//	| Operator        | Query Var     | Value                                  |
//	| --------------- | ------------- | -------------------------------------- |
//	| `p:*`           | `post_id`     | Post ID.                               |
//	| `page_id:*`     | `page_id`     | Page ID.                               |
//	| `post_status:*` | `post_status` | A post status, repeatable.             |
//	| `post_type:*`   | `post_type`   | A post type slug, repeatable.          |
//	| `title:*`       | `title`       | A word or a single/double-quoted text. |
const (
	numericPattern = `[1-9]\d*`
	slugPattern    = `[\w\-]+`
	titlePattern   = `(?:\w+|"[^"]+?"|'[^']+?')`
)

// Defaults returns the built-in operator entries.
func Defaults() *RawSet {
	set := NewRawSet()
	set.Put("p", Structured{QueryVar: "post_id", Pattern: numericPattern})
	set.Put("page_id", Pattern(numericPattern))
	set.Put("post_status", Pattern(slugPattern))
	set.Put("post_type", Pattern(slugPattern))
	set.Put("title", Pattern(titlePattern))
	return set
}

// DefaultProvider adds the built-in operators whose keys are not present yet.
func DefaultProvider(set *RawSet) {
	defaults := Defaults()
	for _, k := range defaults.keys {
		set.PutIfAbsent(k, defaults.specs[k])
	}
}

// DefaultRegistry builds a Registry holding only the built-in operators.
func DefaultRegistry() *Registry {
	reg, _ := Build(Defaults())
	return reg
}
