package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wagiedev/headlessmc-go/internal/errors"
)

// Command names understood by the launcher.
const (
	NameLogin    = "login"
	NameLaunch   = "launch"
	NameFabric   = "fabric"
	NameForge    = "forge"
	NameDownload = "download"
	NameQuit     = "quit"
)

// Command is a structured launcher command.
type Command interface {
	// Name is the first token of the encoded line.
	Name() string

	// Positional returns tokens emitted right after the name, in order.
	Positional() []string

	// Options returns the command's options in emission order.
	Options() Options
}

// Option is a single named option. Value is a bool (flag) or a string or
// number (valued option).
type Option struct {
	Name  string
	Value any
}

// Options is an insertion-ordered option record.
type Options []Option

// Flag appends a boolean option. False flags are kept in the record but
// never encoded.
func (o Options) Flag(name string, on bool) Options {
	return append(o, Option{Name: name, Value: on})
}

// Value appends a valued option. Empty strings and nil are skipped so that
// unset fields of a command record do not reach the wire.
func (o Options) Value(name string, v any) Options {
	switch val := v.(type) {
	case nil:
		return o
	case string:
		if val == "" {
			return o
		}
	}

	return append(o, Option{Name: name, Value: v})
}

// Lookup returns the value of the first option with the given name.
func (o Options) Lookup(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}

	return nil, false
}

// Encode renders cmd as a single protocol line without the trailing newline:
//
//	<name>[ <positional...>][ -<flag>][ --<key> <value>]
//
// The command's own positional tokens come first, then any extra tokens
// passed here. Values are not escaped; a value containing whitespace or a
// newline corrupts the line.
func Encode(cmd Command, positional ...string) string {
	var b strings.Builder

	b.WriteString(cmd.Name())

	for _, tok := range cmd.Positional() {
		b.WriteByte(' ')
		b.WriteString(tok)
	}

	for _, tok := range positional {
		b.WriteByte(' ')
		b.WriteString(tok)
	}

	for _, opt := range cmd.Options() {
		switch v := opt.Value.(type) {
		case bool:
			if v {
				b.WriteString(" -")
				b.WriteString(opt.Name)
			}
		default:
			b.WriteString(" --")
			b.WriteString(opt.Name)
			b.WriteByte(' ')
			b.WriteString(formatValue(v))
		}
	}

	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// Parse splits a protocol line back into its name, positional tokens and
// options. Valued options come back as strings. It is the inverse of Encode
// for lines whose values contain no whitespace.
func Parse(line string) (name string, positional []string, opts Options) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, nil
	}

	name = fields[0]
	rest := fields[1:]

	for i := 0; i < len(rest); i++ {
		tok := rest[i]

		switch {
		case strings.HasPrefix(tok, "--") && len(tok) > 2:
			key := tok[2:]
			if i+1 < len(rest) {
				opts = append(opts, Option{Name: key, Value: rest[i+1]})
				i++
			} else {
				opts = append(opts, Option{Name: key, Value: ""})
			}
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			opts = append(opts, Option{Name: tok[1:], Value: true})
		default:
			positional = append(positional, tok)
		}
	}

	return name, positional, opts
}

// Validate checks command preconditions that must hold before any I/O.
func Validate(cmd Command) error {
	switch c := cmd.(type) {
	case *Launch:
		if c == nil || strings.TrimSpace(c.Version) == "" {
			return errors.ErrMissingVersion
		}
	case Launch:
		if strings.TrimSpace(c.Version) == "" {
			return errors.ErrMissingVersion
		}
	}

	return nil
}
