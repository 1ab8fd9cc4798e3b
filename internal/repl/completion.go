package repl

import "strings"

// commandNames are completable only behind a ':' prefix.
var commandNames = []string{
	":help", ":quit", ":exit", ":q", ":clear", ":reset", ":type", ":env",
	":pwd", ":history", ":load", ":save", ":vars", ":funcs", ":types",
	":mode", ":debug", ":ast", ":transpile", ":bench",
}

// keywords complete bare, anywhere in an expression.
var keywords = []string{
	"actor", "async", "await", "break", "catch", "const", "continue",
	"else", "enum", "false", "finally", "for", "fun", "if", "impl",
	"import", "in", "let", "loop", "match", "module", "mut", "nil",
	"pub", "return", "spawn", "struct", "throw", "trait", "true", "while",
}

// completer implements readline.AutoCompleter.
type completer struct{}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	start := strings.LastIndexAny(prefix, " \t") + 1
	word := prefix[start:]

	if strings.HasPrefix(word, ":") {
		return suffixes(commandNames, word)
	}
	if word == "" {
		return nil, 0
	}
	return suffixes(keywords, word)
}

func suffixes(candidates []string, word string) ([][]rune, int) {
	var out [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, word) && cand != word {
			out = append(out, []rune(cand[len(word):]))
		}
	}
	return out, len(word)
}
