/*
Package container implements the hierarchical archive file that raf tools
operate on.

A container is a single file holding a tree of named nodes. Groups hold other
nodes, datasets hold data in one of three storage kinds: a fixed rectangular
numeric array, a ragged event array, or a table of typed records. Every node,
including the file itself, carries a set of typed key/value attributes. The
file level attribute "schema_version" declares which schema layout the tree
follows; migration code in the migration package reads and advances it.

The on-disk encoding is CBOR, so attribute values and arrays remain
self-describing without a compiled schema.
*/
package container
