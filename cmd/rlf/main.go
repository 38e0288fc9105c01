// Command rlf is a thin CLI over package locale: check, coverage, and
// eval. Kept deliberately small; no colour/TTY handling, no pretty
// diagnostic rendering beyond what errors already produce.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/locale"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/value"
)

// Exit codes: the conventional OK / data-err / software-err triple.
const (
	exitOK       = 0
	exitDataErr  = 1
	exitSoftware = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rlf <check|coverage|eval> ...")
		return exitSoftware
	}

	switch args[0] {
	case "check":
		return cmdCheck(args[1:])
	case "coverage":
		return cmdCoverage(args[1:])
	case "eval":
		return cmdEval(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "rlf: unknown subcommand %q\n", args[0])
		return exitSoftware
	}
}

// cmdCheck implements `check <files...> [--json] [--strict <source>]`:
// parse-only, exit 0 on success, data-err on failure.
func cmdCheck(args []string) int {
	var files []string
	var asJSON bool
	var strictSource string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			asJSON = true
		case "--strict":
			i++
			if i < len(args) {
				strictSource = args[i]
			}
		default:
			files = append(files, args[i])
		}
	}

	type fileResult struct {
		Path   string   `json:"path"`
		OK     bool     `json:"ok"`
		Errors []string `json:"errors,omitempty"`
	}
	var results []fileResult
	failed := false

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			results = append(results, fileResult{Path: f, OK: false, Errors: []string{err.Error()}})
			failed = true
			continue
		}
		if _, perr := rlffile.Parse(string(data)); perr != nil {
			results = append(results, fileResult{Path: f, OK: false, Errors: []string{perr.Error()}})
			failed = true
			continue
		}
		if strictSource != "" {
			// --strict names the language whose transform table the
			// validator resolves against; when its value is not a
			// language tag, the file's name supplies the language.
			lang := language.Make(strictSource)
			if lang == language.Und {
				lang = languageFromFilename(f)
			}
			l := locale.New()
			_ = l.LoadTranslationsStr(lang, string(data))
			if vErrs := l.Validate(lang); len(vErrs) > 0 {
				var msgs []string
				for _, e := range vErrs {
					msgs = append(msgs, e.Error())
				}
				results = append(results, fileResult{Path: f, OK: false, Errors: msgs})
				failed = true
				continue
			}
		}
		results = append(results, fileResult{Path: f, OK: true})
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	} else {
		for _, r := range results {
			if r.OK {
				fmt.Printf("%s: ok\n", r.Path)
			} else {
				fmt.Printf("%s: FAILED\n", r.Path)
				for _, e := range r.Errors {
					fmt.Printf("  %s\n", e)
				}
			}
		}
	}

	if failed {
		return exitDataErr
	}
	return exitOK
}

// cmdCoverage implements `coverage --source <src> --lang <codes...>
// [--translations <dir>] [--strict] [--json]`.
func cmdCoverage(args []string) int {
	var source, dir string
	var langs []string
	var strict, asJSON bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--source":
			i++
			if i < len(args) {
				source = args[i]
			}
		case "--lang":
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				i++
				langs = append(langs, args[i])
			}
		case "--translations":
			i++
			if i < len(args) {
				dir = args[i]
			}
		case "--strict":
			strict = true
		case "--json":
			asJSON = true
		}
	}

	srcData, err := os.ReadFile(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, (&errs.Io{Path: source, Cause: err}).Error())
		return exitDataErr
	}
	srcDefs, perr := rlffile.Parse(string(srcData))
	if perr != nil {
		fmt.Fprintln(os.Stderr, perr.Error())
		return exitDataErr
	}

	type langResult struct {
		Lang      string   `json:"lang"`
		Total     int      `json:"total"`
		Translated int     `json:"translated"`
		Missing   []string `json:"missing,omitempty"`
	}
	var results []langResult
	incomplete := false

	for _, code := range langs {
		lang, lerr := language.Parse(code)
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "rlf: invalid language code %q: %v\n", code, lerr)
			return exitSoftware
		}
		path := code + ".rlf"
		if dir != "" {
			path = dir + "/" + path
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, (&errs.Io{Path: path, Cause: rerr}).Error())
			return exitDataErr
		}
		defs, derr := rlffile.Parse(string(data))
		if derr != nil {
			fmt.Fprintln(os.Stderr, derr.Error())
			return exitDataErr
		}
		have := make(map[string]bool, len(defs))
		for _, d := range defs {
			have[d.Name] = true
		}
		var missing []string
		for _, d := range srcDefs {
			if !have[d.Name] {
				missing = append(missing, d.Name)
			}
		}
		if len(missing) > 0 {
			incomplete = true
		}
		results = append(results, langResult{
			Lang:       lang.String(),
			Total:      len(srcDefs),
			Translated: len(srcDefs) - len(missing),
			Missing:    missing,
		})
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	} else {
		for _, r := range results {
			// Counts are printed with each target language's own digit
			// grouping; language codes were already validated above.
			p := message.NewPrinter(language.Make(r.Lang))
			p.Printf("%s: %d/%d translated\n", r.Lang, r.Translated, r.Total)
			for _, m := range r.Missing {
				fmt.Printf("  missing: %s\n", m)
			}
		}
	}

	if strict && incomplete {
		return exitDataErr
	}
	return exitOK
}

// cmdEval implements `eval --lang <code> --template <str> [--phrases
// <file>] [-p name=value]... [--json]`.
func cmdEval(args []string) int {
	var langCode, template, phrasesFile string
	var asJSON bool
	params := map[string]value.Value{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--lang":
			i++
			if i < len(args) {
				langCode = args[i]
			}
		case "--template":
			i++
			if i < len(args) {
				template = args[i]
			}
		case "--phrases":
			i++
			if i < len(args) {
				phrasesFile = args[i]
			}
		case "--json":
			asJSON = true
		case "-p":
			i++
			if i < len(args) {
				k, v := splitParam(args[i])
				params[k] = parseParamValue(v)
			}
		}
	}

	lang, err := language.Parse(langCode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlf: invalid language code %q: %v\n", langCode, err)
		return exitSoftware
	}

	l := locale.New(locale.WithDefaultLanguage(lang))
	if phrasesFile != "" {
		if err := l.LoadTranslations(lang, phrasesFile); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return exitDataErr
		}
	}

	out, err := l.EvalStr(lang, template, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitDataErr
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		_ = enc.Encode(map[string]string{"result": out})
	} else {
		fmt.Println(out)
	}
	return exitOK
}

func splitParam(s string) (string, string) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

// parseParamValue tries an integer first, then falls back to String.
func parseParamValue(s string) value.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.NumberValue(n)
	}
	return value.StringValue(s)
}

// languageFromFilename derives a language.Tag from a "<code>.rlf"
// filename, used by `check --strict` when the --strict value is not a
// language tag.
func languageFromFilename(path string) language.Tag {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".rlf")
	lang, err := language.Parse(base)
	if err != nil {
		return language.English
	}
	return lang
}
