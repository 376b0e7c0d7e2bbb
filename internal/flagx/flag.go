// Package flagx holds small helpers for sharing os.Args between several
// independent flag sets (config file lookup, server flags, admin flags).
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of the allowed flags and
// their values, in their original order.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A value
// is only consumed when the next token does not itself start with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFiles extracts the JSON config path (-c / -config) and the dotenv
// file path (-env) from args. Missing flags yield empty strings; all other
// arguments are ignored so callers can parse their own flags afterwards.
func ConfigFiles(args []string) (jsonFile string, envFile string) {
	filtered := FilterArgs(args, []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("config-files", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&jsonFile, "config", "", "path to JSON config file")
	fs.StringVar(&jsonFile, "c", "", "path to JSON config file (short)")
	fs.StringVar(&envFile, "env", "", "path to dotenv file")
	_ = fs.Parse(filtered)

	return jsonFile, envFile
}
