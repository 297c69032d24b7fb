package resolver

import "strings"

// FormNicknames derives the short names of cNames by removing their common
// prefix. The prefix always ends at an underscore. A lone enumerator has no
// neighbour to compare with, so its prefix is taken from the part of its name
// that spells the type name: GtkFoo with GTK_FOO_BAR gives "bar".
func FormNicknames(typeName string, cNames []string) []string {
	names := []string{}
	if len(cNames) == 0 {
		return names
	}

	leng := len(cNames[0]) - 1
	if len(cNames) > 1 {
		for j := 0; j < len(cNames)-1 && leng > 0; j++ {
			for leng > 0 && (charAt(cNames[j], leng-1) != '_' || head(cNames[j], leng) != head(cNames[j+1], leng)) {
				leng--
			}
		}
	} else {
		words := strings.Split(cNames[0], "_")
		for j := range words {
			words[j] = capitalize(words[j])
		}
		pseudoName := strings.Join(words, "")
		for leng > 0 && head(typeName, leng) != head(pseudoName, leng) {
			leng--
		}
		// Count one underscore per word the matched type name spans.
		if leng > 0 {
			rest := leng
			for _, w := range words {
				leng++
				if rest <= len(w) {
					break
				}
				rest -= len(w)
			}
		}
	}

	prefix := head(cNames[0], leng)
	for _, name := range cNames {
		name = strings.TrimPrefix(name, prefix)
		names = append(names, strings.ReplaceAll(strings.ToLower(name), "_", "-"))
	}
	return names
}

func head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}

func charAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
