// Package flagx lets several packages share one command line. Each caller
// picks the flags it owns out of os.Args and parses only those, so flags
// meant for another component never trip flag.ContinueOnError.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values, and drops everything else. Names are given with a single dash
// ("-c"); both "-c" and "--c" spellings match, as with the flag package.
//
// A value is either joined with '=' ("-c=conf.json") or the next argument
// when that argument does not itself start with a dash.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[flagName(name)] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, joined := strings.Cut(arg, "=")
		if !known[flagName(name)] {
			continue
		}
		out = append(out, arg)

		if !joined && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, args[i])
		}
	}

	return out
}

// flagName strips the one or two leading dashes of a flag.
func flagName(s string) string {
	s = strings.TrimPrefix(s, "-")
	return strings.TrimPrefix(s, "-")
}

// ConfigPath returns the JSON config path given in args via -c or -config.
// The last occurrence wins; an empty string means no file was requested.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
