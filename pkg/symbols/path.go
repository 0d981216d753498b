package symbols

import (
	"path/filepath"
	"strings"
)

// modulePaths holds the canonical cache locations derived for one
// module under one search root, plus the URL suffix that requests the
// matching native debug file from a symbol server.
type modulePaths struct {
	symbolFile string
	nativeFile string
	urlSuffix  string
}

// baseName returns the final path component of p, treating both slash
// styles as separators. Module paths in crash dumps follow the
// conventions of the crashed system, not ours.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// debugFileBase resolves the file name the cache hierarchy is keyed
// on. When the dump carries no debug file name, the module is assumed
// to follow the Windows <name>.<3-char-extension> convention and its
// debug file is assumed to be <name>.pdb. The fixed-width strip is
// load-bearing for compatibility with existing caches; do not extend
// it to other extension lengths.
func debugFileBase(m Module) (string, error) {
	if m.DebugFile != "" {
		return baseName(m.DebugFile), nil
	}
	base := baseName(m.CodeFile)
	if len(base) <= 3 {
		return "", pathDerivationError{codeFile: m.CodeFile, reason: "code file name too short to infer a debug file name"}
	}
	return base[:len(base)-3] + "pdb", nil
}

// derivePaths computes where the symbol file and the native debug file
// for m live under root. The hierarchy matches the Microsoft symbol
// server convention:
//
//	<root>/<debug file name>/<debug identifier or version>/<stem>.sym
//
// The identifier level is omitted entirely when the module has neither
// a debug identifier nor a version.
func derivePaths(root string, m Module) (modulePaths, error) {
	base, err := debugFileBase(m)
	if err != nil {
		return modulePaths{}, err
	}

	dir := []string{base}
	switch {
	case m.DebugIdentifier != "":
		dir = append(dir, m.DebugIdentifier)
	case m.Version != "":
		dir = append(dir, m.Version)
	}

	stem := base
	if len(stem) > 4 && strings.EqualFold(stem[len(stem)-4:], ".pdb") {
		stem = stem[:len(stem)-4]
	}

	relNative := append(append([]string{}, dir...), stem+".pdb")
	relSymbol := append(dir, stem+".sym")

	return modulePaths{
		symbolFile: filepath.Join(append([]string{root}, relSymbol...)...),
		nativeFile: filepath.Join(append([]string{root}, relNative...)...),
		urlSuffix:  "/" + strings.Join(relNative, "/"),
	}, nil
}
