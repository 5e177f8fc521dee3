// Package cli contains the command line interface for sdfc.
//
// # Usage
//
// The default command compiles a source file, or stdin, to GLSL:
//
//	sdfc model.csg -o model.glsl
//	echo 'sphere(d=2)' | sdfc
//
// Other commands watch a file, serve compiled code over HTTP, edit with a
// live preview, format source, and probe distances:
//
//	sdfc watch model.csg -o model.glsl
//	sdfc serve model.csg --addr localhost:8080
//	sdfc edit model.csg
//	sdfc fmt yaml model.csg
//	sdfc probe --at 0,0,1 --at 0,0,3 model.csg
//
// Logging and profiling options apply to every command:
//
//	sdfc --log-level=debug --log-format=text watch model.csg
//	sdfc --pprof-mode=cpu model.csg   # built with -tags pprof
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Keys name flags with hyphens or underscores, and a mapping keyed
// by a command name scopes its keys to that command:
//
//	log-level: debug
//	strict: true
//	serve:
//	  addr: localhost:9000
//
// A config.json file in the same directory is also consulted. Command-line
// flags always take precedence. The init command writes the current flag
// values to config.yaml.
package cli
