// Package edit implements an interactive terminal editor for CSG source with
// a live preview of the generated code.
//
// The buffer is recompiled whenever it changes, at most once per interval,
// and the preview always shows the last code that compiled. The status line
// reports the cursor position, the innermost function under the cursor, and
// the outcome of the latest compile. Inside a parameter list the hint line
// shows the function's signature with the current parameter highlighted.
//
// Keys:
//
//	ctrl+s          save the buffer
//	ctrl+e          edit the buffer in $VISUAL or $EDITOR
//	tab, shift+tab  cycle completions of function and parameter names
//	esc             dismiss completions
//	ctrl+q          quit, confirming unsaved changes
//	ctrl+c          quit immediately
package edit
