package pickle

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/auklab/raf/errors"
)

// Sentinel is the final byte of every protocol 0 payload (the stop opcode).
// A string attribute ending with it is a decode candidate.
const Sentinel = '.'

// Looks reports whether a string value looks like a pickled payload. The
// check is deliberately cheap; Loads is the authority.
func Looks(s string) bool {
	return len(s) > 0 && s[len(s)-1] == Sentinel
}

// Loads decodes a protocol 0 payload into its native Go value:
// int/long -> int64, float -> float64, bool -> bool, str/unicode -> string,
// None -> nil, tuple/list -> []interface{}, dict -> map[interface{}]interface{}.
func Loads(raw []byte) (interface{}, error) {
	d := decoder{data: raw}
	return d.run()
}

// markItem is the stack sentinel pushed by the "(" opcode.
type markItem struct{}

// listRef gives lists reference semantics on the decoder stack, so that
// append opcodes observed after a memo put still mutate the memoized list.
type listRef struct {
	items []interface{}
}

type decoder struct {
	data  []byte
	pos   int
	stack []interface{}
	memo  map[string]interface{}
}

func (d *decoder) run() (interface{}, error) {
	for d.pos < len(d.data) {
		op := d.data[d.pos]
		d.pos++
		switch op {
		case '.':
			if len(d.stack) != 1 {
				return nil, errors.Wrapf(errors.ErrInput, "stop with %d stack items", len(d.stack))
			}
			return resolve(d.stack[0]), nil
		case 'N':
			d.push(nil)
		case 'I':
			line, err := d.line()
			if err != nil {
				return nil, err
			}
			// Protocol 0 booleans are whole opcodes, not numbers.
			switch line {
			case "01":
				d.push(true)
			case "00":
				d.push(false)
			default:
				n, err := strconv.ParseInt(line, 10, 64)
				if err != nil {
					return nil, errors.Wrapf(errors.ErrInput, "int %q", line)
				}
				d.push(n)
			}
		case 'L':
			line, err := d.line()
			if err != nil {
				return nil, err
			}
			line = strings.TrimSuffix(line, "L")
			n, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInput, "long %q", line)
			}
			d.push(n)
		case 'F':
			line, err := d.line()
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInput, "float %q", line)
			}
			d.push(f)
		case 'S':
			line, err := d.line()
			if err != nil {
				return nil, err
			}
			s, err := unquote(line)
			if err != nil {
				return nil, err
			}
			d.push(s)
		case 'V':
			line, err := d.line()
			if err != nil {
				return nil, err
			}
			s, err := unescapeUnicode(line)
			if err != nil {
				return nil, err
			}
			d.push(s)
		case '(':
			d.push(markItem{})
		case 't':
			items, err := d.popMark()
			if err != nil {
				return nil, err
			}
			d.push(items)
		case 'l':
			items, err := d.popMark()
			if err != nil {
				return nil, err
			}
			d.push(&listRef{items: items})
		case 'd':
			items, err := d.popMark()
			if err != nil {
				return nil, err
			}
			if len(items)%2 != 0 {
				return nil, errors.Wrap(errors.ErrInput, "odd number of dict items")
			}
			m := make(map[interface{}]interface{}, len(items)/2)
			for i := 0; i < len(items); i += 2 {
				m[resolve(items[i])] = items[i+1]
			}
			d.push(m)
		case 'a':
			v, err := d.pop()
			if err != nil {
				return nil, err
			}
			top, err := d.pop()
			if err != nil {
				return nil, err
			}
			lst, ok := top.(*listRef)
			if !ok {
				return nil, errors.Wrapf(errors.ErrInput, "append to %T", top)
			}
			lst.items = append(lst.items, v)
			d.push(lst)
		case 's':
			v, err := d.pop()
			if err != nil {
				return nil, err
			}
			k, err := d.pop()
			if err != nil {
				return nil, err
			}
			top, err := d.pop()
			if err != nil {
				return nil, err
			}
			m, ok := top.(map[interface{}]interface{})
			if !ok {
				return nil, errors.Wrapf(errors.ErrInput, "setitem on %T", top)
			}
			m[resolve(k)] = v
			d.push(m)
		case 'p':
			idx, err := d.line()
			if err != nil {
				return nil, err
			}
			if len(d.stack) == 0 {
				return nil, errors.Wrap(errors.ErrInput, "put on empty stack")
			}
			if d.memo == nil {
				d.memo = make(map[string]interface{})
			}
			d.memo[idx] = d.stack[len(d.stack)-1]
		case 'g':
			idx, err := d.line()
			if err != nil {
				return nil, err
			}
			v, ok := d.memo[idx]
			if !ok {
				return nil, errors.Wrapf(errors.ErrInput, "memo %q", idx)
			}
			d.push(v)
		case '0':
			if _, err := d.pop(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Wrapf(errors.ErrInput, "opcode %q", op)
		}
	}
	return nil, errors.Wrap(errors.ErrInput, "no stop opcode")
}

func (d *decoder) push(v interface{}) {
	d.stack = append(d.stack, v)
}

func (d *decoder) pop() (interface{}, error) {
	if len(d.stack) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "pop on empty stack")
	}
	v := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	return v, nil
}

// popMark pops every item above the newest mark, in push order.
func (d *decoder) popMark() ([]interface{}, error) {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if _, ok := d.stack[i].(markItem); ok {
			items := append([]interface{}(nil), d.stack[i+1:]...)
			d.stack = d.stack[:i]
			return items, nil
		}
	}
	return nil, errors.Wrap(errors.ErrInput, "no mark on stack")
}

// line consumes bytes up to the next newline.
func (d *decoder) line() (string, error) {
	end := bytes.IndexByte(d.data[d.pos:], '\n')
	if end < 0 {
		return "", errors.Wrap(errors.ErrInput, "unterminated line")
	}
	line := string(d.data[d.pos : d.pos+end])
	d.pos += end + 1
	return line, nil
}

// resolve collapses the internal reference wrappers into plain values.
func resolve(v interface{}) interface{} {
	switch val := v.(type) {
	case *listRef:
		out := make([]interface{}, len(val.items))
		for i, item := range val.items {
			out[i] = resolve(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = resolve(item)
		}
		return out
	case map[interface{}]interface{}:
		for k, item := range val {
			val[k] = resolve(item)
		}
		return val
	default:
		return v
	}
}

// unquote decodes a protocol 0 string repr: surrounding quotes plus
// backslash escapes.
func unquote(line string) (string, error) {
	if len(line) < 2 {
		return "", errors.Wrapf(errors.ErrInput, "string %q", line)
	}
	quote := line[0]
	if quote != '\'' && quote != '"' || line[len(line)-1] != quote {
		return "", errors.Wrapf(errors.ErrInput, "string %q", line)
	}
	body := line[1 : len(line)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.Wrapf(errors.ErrInput, "trailing backslash in %q", line)
		}
		switch body[i] {
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'x':
			if i+2 >= len(body) {
				return "", errors.Wrapf(errors.ErrInput, "short hex escape in %q", line)
			}
			n, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", errors.Wrapf(errors.ErrInput, "hex escape in %q", line)
			}
			b.WriteByte(byte(n))
			i += 2
		default:
			return "", errors.Wrapf(errors.ErrInput, "escape \\%c in %q", body[i], line)
		}
	}
	return b.String(), nil
}

// unescapeUnicode decodes a raw-unicode-escape line as written by the V
// opcode: literal text with \uXXXX escapes.
func unescapeUnicode(line string) (string, error) {
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) || runes[i+1] != 'u' {
			b.WriteRune(runes[i])
			continue
		}
		if i+6 > len(runes) {
			return "", errors.Wrapf(errors.ErrInput, "short unicode escape in %q", line)
		}
		n, err := strconv.ParseUint(string(runes[i+2:i+6]), 16, 32)
		if err != nil {
			return "", errors.Wrapf(errors.ErrInput, "unicode escape in %q", line)
		}
		r := rune(n)
		// Combine surrogate pairs the writer may have split.
		if utf16.IsSurrogate(r) && i+12 <= len(runes) && runes[i+6] == '\\' && runes[i+7] == 'u' {
			if lo, err := strconv.ParseUint(string(runes[i+8:i+12]), 16, 32); err == nil {
				if dec := utf16.DecodeRune(r, rune(lo)); dec != 0xFFFD {
					b.WriteRune(dec)
					i += 11
					continue
				}
			}
		}
		b.WriteRune(r)
		i += 5
	}
	return b.String(), nil
}
