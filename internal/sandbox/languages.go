package sandbox

import "strings"

// Language describes how to turn a source file into a running process.
// "{dir}" and "{file}" in Compile and Run are replaced with the scratch
// directory and the source path.
type Language struct {
	Name    string
	File    string
	Compile []string
	Run     []string
}

var languages = map[string]Language{
	"python": {
		Name: "python",
		File: "main.py",
		Run:  []string{"python3", "{file}"},
	},
	"javascript": {
		Name: "javascript",
		File: "main.js",
		Run:  []string{"node", "{file}"},
	},
	"java": {
		Name:    "java",
		File:    "Main.java",
		Compile: []string{"javac", "{file}"},
		Run:     []string{"java", "-cp", "{dir}", "Main"},
	},
}

var aliases = map[string]string{
	"python3": "python",
	"py":      "python",
	"js":      "javascript",
	"node":    "javascript",
	"nodejs":  "javascript",
}

// Lookup resolves a language tag, case-insensitively, with aliases.
func Lookup(tag string) (Language, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if a, ok := aliases[tag]; ok {
		tag = a
	}
	l, ok := languages[tag]
	return l, ok
}

// Supported lists the canonical language names.
func Supported() []string {
	return []string{"python", "javascript", "java"}
}

func expand(args []string, dir, file string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, "{dir}", dir)
		out[i] = strings.ReplaceAll(a, "{file}", file)
	}
	return out
}
