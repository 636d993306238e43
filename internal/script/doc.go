// Package script drives an engine from operation scripts.
//
// Two script forms are supported. A YAML script lists steps:
//
//	name: make a list
//	text: "first item\nsecond item"
//	steps:
//	  - op: toggle
//	    type: ul
//	    start: 0
//	    end: 22
//	  - op: expect
//	    html: "<ul><li>first item</li><li>second item</li></ul>"
//
// A group step runs its nested steps as one undo unit and reverts them all
// when one fails. In Lua, doc:transaction(name, fn) does the same and
// returns false and the error instead of raising it.
//
// A Lua script calls methods on the global doc object inside a sandboxed
// interpreter with only the base, table, string and math libraries:
//
//	doc:insert(0, "Quote 1\nQuote 2")
//	doc:apply("quote", 0, doc:len())
//	assert(doc:formatted("quote", 0, 0))
package script
