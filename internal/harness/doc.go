// Package harness runs search-operator parse scenarios.
//
// A scenario is a YAML file naming the operator definition files to load,
// whether the built-in defaults apply, the query shape (plain args or a
// stateful query object) and a list of cases. Each case is one search text
// pushed through queryargs.Adapter exactly as a host would, followed by
// subset assertions on the resulting query variables:
//
//	name: title_and_type
//	description: "title and repeated post_type"
//	operators: [operators/author.cue]
//	cases:
//	  - search: "hello title:world post_type:page post_type:post"
//	    expect:
//	      s: hello
//	      title: world
//	      post_type: [page, post]
//	    absent: [post_id]
//
// Each scenario runs against a fresh collector, so cases never share
// registry state. Result snapshots serialize as canonical JSON for golden
// comparison with goldie.
package harness
