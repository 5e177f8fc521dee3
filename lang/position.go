package lang

// FunctionAt returns the innermost function whose interval contains the
// cursor offset, or nil if the cursor lies outside every top-level function.
func FunctionAt(root *RootNode, cursor int) *FunctionNode {
	if root == nil {
		return nil
	}

	for _, fn := range root.Operands {
		if found := functionAt(fn, cursor); found != nil {
			return found
		}
	}

	return nil
}

func functionAt(fn *FunctionNode, cursor int) *FunctionNode {
	if !fn.Interval.Contains(cursor) {
		return nil
	}

	for _, op := range fn.Operands {
		if found := functionAt(op, cursor); found != nil {
			return found
		}
	}

	return fn
}

// Path returns the chain of functions from a top-level function down to the
// innermost one containing cursor. The result is empty when no function
// contains cursor.
func Path(root *RootNode, cursor int) []*FunctionNode {
	if root == nil {
		return nil
	}

	var path []*FunctionNode

	next := root.Operands

	for {
		var found *FunctionNode

		for _, fn := range next {
			if fn.Interval.Contains(cursor) {
				found = fn

				break
			}
		}

		if found == nil {
			return path
		}

		path = append(path, found)
		next = found.Operands
	}
}
