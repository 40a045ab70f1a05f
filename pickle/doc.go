/*
Package pickle decodes legacy serialized attribute values.

Archives written by the previous container implementation stored many
attribute values, including plain numbers, as Python pickle protocol 0
payloads: printable opcode streams terminated by a "." stop opcode. This
package implements just enough of that protocol to recover the value types
observed in real archives: integers, longs, floats, booleans, strings,
unicode strings, None, tuples, lists and dicts, plus the memo opcodes the
writer emits for container values.

Decoding is strictly best effort by design. Callers keep the original string
when Loads fails, so an archive can never be made unreadable by an
undecodable value.
*/
package pickle
