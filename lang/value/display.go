package value

import "strconv"

// Display renders v the way OP_PRINT writes it to stdout: numbers in
// minimal decimal form, bools as true/false, nil as nil, strings as their
// raw contents, and every heap object variant via its own String method.
func Display(v Value) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindObj:
		return v.obj.String()
	}
	return "?"
}
